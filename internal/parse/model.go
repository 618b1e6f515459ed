package parse

import (
	"time"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

// Export is one unit of exported chat data: a Messenger message file or a
// Discord channel directory.
type Export struct {
	Key     string // e.g. "messenger:inbox/alice_x1/message_1.json"
	Source  chat.Source
	Path    string
	Channel string
	Mtime   time.Time
	Size    int64
}

type ParseResult struct {
	Export   Export
	Messages []chat.Message // ascending, UTC
}
