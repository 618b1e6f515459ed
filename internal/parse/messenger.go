package parse

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

type messengerExport struct {
	Title    string             `json:"title"`
	Messages []messengerMessage `json:"messages"`
}

type messengerMessage struct {
	SenderName  string  `json:"sender_name"`
	TimestampMs int64   `json:"timestamp_ms"`
	Content     *string `json:"content"`
	Type        string  `json:"type"`
	IsUnsent    bool    `json:"is_unsent"`
}

func ParseMessenger(filePath, messengerRoot string) (*ParseResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	var export messengerExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, err
	}

	channel := fixMojibake(export.Title)

	result := &ParseResult{
		Export: Export{
			Key:     MessengerKey(filePath, messengerRoot),
			Source:  chat.SourceMessenger,
			Path:    filePath,
			Channel: channel,
			Mtime:   info.ModTime(),
			Size:    info.Size(),
		},
	}

	for _, m := range export.Messages {
		// calls, shares and stickers carry no text
		if m.Type != "Generic" || m.IsUnsent || m.Content == nil {
			continue
		}
		result.Messages = append(result.Messages, chat.Message{
			Sender:    fixMojibake(m.SenderName),
			Timestamp: time.UnixMilli(m.TimestampMs).UTC(),
			Channel:   channel,
			Source:    chat.SourceMessenger,
			Content:   fixMojibake(*m.Content),
		})
	}

	// newest first on disk
	slices.SortStableFunc(result.Messages, func(a, b chat.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return result, nil
}

// MessengerKey identifies a Messenger message file by its path below root.
func MessengerKey(filePath, messengerRoot string) string {
	return "messenger:" + relSlash(filePath, messengerRoot)
}

func relSlash(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// fixMojibake undoes Messenger's habit of writing UTF-8 bytes as Latin-1
// escapes ("Ã©" for "é"). Strings that are not mojibake are
// returned unchanged.
func fixMojibake(s string) string {
	if !suspectMojibake(s) {
		return s
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) {
		return s
	}
	return raw
}

// suspectMojibake reports whether s has non-ASCII text made only of
// Latin-1 runes.
func suspectMojibake(s string) bool {
	ascii := true
	for _, r := range s {
		if r > 0xff {
			return false
		}
		if r >= utf8.RuneSelf {
			ascii = false
		}
	}
	return !ascii
}
