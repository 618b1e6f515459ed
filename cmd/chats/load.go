package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Zuo-Peng/chat-analytics/internal/autocorrect"
	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/config"
	"github.com/Zuo-Peng/chat-analytics/internal/index"
	"github.com/Zuo-Peng/chat-analytics/internal/query"
)

// newLogger logs to stderr: warnings by default, everything with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}

// filterFlags narrow which indexed messages a command looks at.
type filterFlags struct {
	source  string
	channel string
	since   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "Filter by source (messenger/discord)")
	cmd.Flags().StringVar(&f.channel, "channel", "", "Filter by channel name")
	cmd.Flags().StringVar(&f.since, "since", "", "Only messages since date (YYYY-MM-DD)")
}

func (f *filterFlags) filter(loc *time.Location) (index.Filter, error) {
	var out index.Filter
	switch f.source {
	case "":
	case "messenger":
		out.Source = chat.SourceMessenger
	case "discord":
		out.Source = chat.SourceDiscord
	default:
		return out, fmt.Errorf("unknown source %q (want messenger or discord)", f.source)
	}
	out.Channel = f.channel
	if f.since != "" {
		t, err := time.ParseInLocation("2006-01-02", f.since, loc)
		if err != nil {
			return out, fmt.Errorf("parse --since: %w", err)
		}
		out.Since = t
	}
	return out, nil
}

// session is an opened index plus the chat loaded from it.
type session struct {
	cfg  *config.Config
	db   *index.DB
	chat *chat.Chat
}

func (s *session) Close() error {
	return s.db.Close()
}

// openSession loads config, refreshes the index and loads the matching
// messages into a chat in the configured timezone.
func openSession(a *app, flags *filterFlags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	f, err := flags.filter(loc)
	if err != nil {
		return nil, err
	}

	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Auto-update index before answering
	if stats, err := index.IndexAll(db, cfg.MessengerRoot, cfg.DiscordRoot, a.logger); err != nil {
		a.logger.Warn("refresh index", zap.Error(err))
	} else {
		a.logger.Debug("refreshed index", zap.Stringer("stats", stats))
	}

	msgs, err := db.LoadMessages(f)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}
	c := chat.New(loc)
	c.Add(msgs...)
	a.logger.Debug("loaded chat",
		zap.Int("messages", c.Len()),
		zap.Int("conversations", len(c.Conversations())),
		zap.String("timezone", loc.String()))

	return &session{cfg: cfg, db: db, chat: c}, nil
}

// newEngine builds the query engine, extending the corrector with the
// configured dictionary when there is one.
func newEngine(logger *zap.Logger, cfg *config.Config, wakingDay bool) (*query.Engine, error) {
	corrector := autocorrect.Default()
	if cfg.Dictionary != "" {
		extra, err := autocorrect.LoadWords(cfg.Dictionary)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		corrector = autocorrect.New(append(autocorrect.DefaultWords(), extra...))
	}
	return query.NewEngine(corrector, query.Options{WakingDay: wakingDay || cfg.WakingDay}, logger)
}
