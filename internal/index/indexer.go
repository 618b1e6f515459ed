package index

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/parse"
	"github.com/Zuo-Peng/chat-analytics/internal/scan"
)

type Stats struct {
	Scanned  int
	Updated  int
	Skipped  int
	Pruned   int
	Errors   int
	Messages int // rows written by this run
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d messages=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors, s.Messages)
}

// IndexAll brings the database in line with the export roots: new and
// changed exports are (re)parsed, unchanged ones skipped, vanished ones
// pruned.
func IndexAll(db *DB, messengerRoot, discordRoot string, logger *zap.Logger) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoots(messengerRoot, discordRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which exports we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := exportKey(fi, messengerRoot, discordRoot)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			logger.Warn("check export", zap.String("path", fi.Path), zap.Error(err))
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := parseFile(fi, messengerRoot, discordRoot)
		if err != nil {
			stats.Errors++
			logger.Warn("parse export", zap.String("path", fi.Path), zap.Error(err))
			continue
		}
		if err := indexExport(db, result, fi); err != nil {
			stats.Errors++
			logger.Warn("index export", zap.String("path", fi.Path), zap.Error(err))
			continue
		}
		logger.Debug("indexed export",
			zap.String("key", key),
			zap.String("channel", result.Export.Channel),
			zap.Int("messages", len(result.Messages)))
		stats.Updated++
		stats.Messages += len(result.Messages)
	}

	pruned, err := pruneExports(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func exportKey(fi scan.FileInfo, messengerRoot, discordRoot string) string {
	if fi.Source == chat.SourceDiscord {
		return parse.DiscordKey(fi.Path, discordRoot)
	}
	return parse.MessengerKey(fi.Path, messengerRoot)
}

func parseFile(fi scan.FileInfo, messengerRoot, discordRoot string) (*parse.ParseResult, error) {
	switch fi.Source {
	case chat.SourceMessenger:
		return parse.ParseMessenger(fi.Path, messengerRoot)
	case chat.SourceDiscord:
		return parse.ParseDiscord(fi.Path, discordRoot)
	default:
		return nil, fmt.Errorf("unknown source: %s", fi.Source)
	}
}

func needsUpdate(db *DB, key string, mtime, size int64) (bool, error) {
	info, err := db.GetExportInfo(key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new export
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexExport(db *DB, result *parse.ParseResult, fi scan.FileInfo) error {
	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := result.Export.Key
	if _, err := tx.Exec("DELETE FROM messages WHERE export_key = ?", key); err != nil {
		return err
	}
	// mtime/size come from the scan so the next run compares like with like
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO exports (export_key, source, path, channel, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key,
		string(result.Export.Source),
		result.Export.Path,
		result.Export.Channel,
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (export_key, seq, ts, sender, channel, source, content)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range result.Messages {
		_, err := stmt.Exec(
			key,
			i,
			m.Timestamp.UnixNano(),
			m.Sender,
			m.Channel,
			string(m.Source),
			m.Content,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneExports(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllExportKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteExport(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
