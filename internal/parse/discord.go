package parse

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

const (
	DiscordChannelFile  = "channel.json"
	DiscordMessagesFile = "messages.csv"

	// Discord exports have no sender column; every row is the exporter's.
	discordSender = "user"
)

type discordChannel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Guild *struct {
		Name string `json:"name"`
	} `json:"guild"`
	Recipients []string `json:"recipients"`
}

// ParseDiscord reads one Discord channel directory. dir may also point at
// either of the two files inside it.
func ParseDiscord(dir, discordRoot string) (*ParseResult, error) {
	if base := filepath.Base(dir); base == DiscordChannelFile || base == DiscordMessagesFile {
		dir = filepath.Dir(dir)
	}
	channelPath := filepath.Join(dir, DiscordChannelFile)
	messagesPath := filepath.Join(dir, DiscordMessagesFile)

	data, err := os.ReadFile(channelPath)
	if err != nil {
		return nil, err
	}
	var ch discordChannel
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("%s: %w", DiscordChannelFile, err)
	}

	f, err := os.Open(messagesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mtime, size, err := combinedInfo(channelPath, messagesPath)
	if err != nil {
		return nil, err
	}

	channel := ch.displayName()

	result := &ParseResult{
		Export: Export{
			Key:     DiscordKey(dir, discordRoot),
			Source:  chat.SourceDiscord,
			Path:    dir,
			Channel: channel,
			Mtime:   mtime,
			Size:    size,
		},
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DiscordMessagesFile, err)
	}
	tsCol, contentCol := slices.Index(header, "Timestamp"), slices.Index(header, "Contents")
	if tsCol < 0 || contentCol < 0 {
		return nil, fmt.Errorf("%s: missing Timestamp or Contents column", DiscordMessagesFile)
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", DiscordMessagesFile, err)
		}
		if len(rec) <= max(tsCol, contentCol) {
			continue
		}
		content := rec[contentCol]
		if content == "" {
			continue
		}
		ts, ok := parseDiscordTimestamp(rec[tsCol])
		if !ok {
			continue
		}
		result.Messages = append(result.Messages, chat.Message{
			Sender:    discordSender,
			Timestamp: ts,
			Channel:   channel,
			Source:    chat.SourceDiscord,
			Content:   content,
		})
	}

	slices.SortStableFunc(result.Messages, func(a, b chat.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return result, nil
}

// DiscordKey identifies a Discord channel directory by its path below root.
func DiscordKey(dir, discordRoot string) string {
	return "discord:" + relSlash(dir, discordRoot)
}

func (c discordChannel) displayName() string {
	switch {
	case c.Guild != nil:
		return fmt.Sprintf("%s: #%s", c.Guild.Name, c.Name)
	case c.Recipients != nil:
		return strings.Join(c.Recipients, ", ")
	default:
		return c.ID
	}
}

var discordTimestampLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// parseDiscordTimestamp accepts the layouts seen in Discord data packages.
// Timestamps without an offset are taken as UTC.
func parseDiscordTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range discordTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// combinedInfo reports the newest mtime and the total size of files.
func combinedInfo(paths ...string) (time.Time, int64, error) {
	var mtime time.Time
	var size int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return time.Time{}, 0, err
		}
		if info.ModTime().After(mtime) {
			mtime = info.ModTime()
		}
		size += info.Size()
	}
	return mtime, size, nil
}
