package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type roots struct {
	messenger, discord string
}

func fixtureRoots(t *testing.T) roots {
	t.Helper()
	r := roots{messenger: t.TempDir(), discord: t.TempDir()}
	writeFile(t, filepath.Join(r.messenger, "inbox", "ab_1", "message_1.json"), `{
  "title": "Alice",
  "messages": [
    {"sender_name": "Alice", "timestamp_ms": 1700000060000, "content": "second", "type": "Generic", "is_unsent": false},
    {"sender_name": "Me", "timestamp_ms": 1700000000000, "content": "first", "type": "Generic", "is_unsent": false}
  ]
}`)
	writeFile(t, filepath.Join(r.discord, "c1", "channel.json"), `{"id": "1", "name": "general", "guild": {"name": "Guild"}}`)
	writeFile(t, filepath.Join(r.discord, "c1", "messages.csv"),
		"ID,Timestamp,Contents,Attachments\n1,2023-11-14 22:13:50+00:00,between,\n")
	return r
}

func TestIndexAll_Incremental(t *testing.T) {
	db := openTestDB(t)
	r := fixtureRoots(t)
	logger := zaptest.NewLogger(t)

	stats, err := IndexAll(db, r.messenger, r.discord, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 3, stats.Messages)

	n, err := db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stats, err = IndexAll(db, r.messenger, r.discord, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, stats.Updated)

	require.NoError(t, os.RemoveAll(filepath.Join(r.discord, "c1")))
	stats, err = IndexAll(db, r.messenger, r.discord, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pruned)

	n, err = db.ExportCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIndexAll_ParseErrorCounted(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "message_1.json"), "{broken")

	stats, err := IndexAll(db, root, "", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Updated)
}

func TestLoadMessages(t *testing.T) {
	db := openTestDB(t)
	r := fixtureRoots(t)
	_, err := IndexAll(db, r.messenger, r.discord, zaptest.NewLogger(t))
	require.NoError(t, err)

	msgs, err := db.LoadMessages(Filter{})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"first", "between", "second"},
		[]string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), msgs[0].Timestamp)
	assert.Equal(t, chat.SourceDiscord, msgs[1].Source)
	assert.Equal(t, "Guild: #general", msgs[1].Channel)

	msgs, err = db.LoadMessages(Filter{Source: chat.SourceMessenger})
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	msgs, err = db.LoadMessages(Filter{Channel: "Guild: #general"})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	msgs, err = db.LoadMessages(Filter{Since: time.UnixMilli(1700000030000)})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "between", msgs[0].Content)
}

func TestChannels(t *testing.T) {
	db := openTestDB(t)
	r := fixtureRoots(t)
	_, err := IndexAll(db, r.messenger, r.discord, zaptest.NewLogger(t))
	require.NoError(t, err)

	channels, err := db.Channels()
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, chat.SourceDiscord, channels[0].Source)
	assert.Equal(t, 1, channels[0].Messages)
	assert.Equal(t, "Alice", channels[1].Channel)
	assert.Equal(t, 2, channels[1].Messages)
}

func TestSchemaVersionForcesReindex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.db")
	r := fixtureRoots(t)

	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = IndexAll(db, r.messenger, r.discord, zaptest.NewLogger(t))
	require.NoError(t, err)
	_, err = db.Raw().Exec("UPDATE meta SET value = 'old' WHERE key = 'schema_version'")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	stats, err := IndexAll(db, r.messenger, r.discord, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Updated)
}
