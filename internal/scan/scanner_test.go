package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanRoots(t *testing.T) {
	messenger := t.TempDir()
	touch(t, filepath.Join(messenger, "inbox", "a_1", "message_1.json"), "{}")
	touch(t, filepath.Join(messenger, "inbox", "a_1", "message_2.json"), "{}")
	touch(t, filepath.Join(messenger, "inbox", "a_1", "photos", "x.jpg"), "")
	touch(t, filepath.Join(messenger, "inbox", "a_1", "message_1.json.bak"), "")
	touch(t, filepath.Join(messenger, "autofill_information.json"), "{}")

	discord := t.TempDir()
	touch(t, filepath.Join(discord, "messages", "c1", "channel.json"), "{}")
	touch(t, filepath.Join(discord, "messages", "c1", "messages.csv"), "ID,Timestamp,Contents,Attachments\n")
	touch(t, filepath.Join(discord, "messages", "c2", "channel.json"), "{}") // no csv
	touch(t, filepath.Join(discord, "messages", "index.json"), "{}")

	files, err := ScanRoots(messenger, discord)
	require.NoError(t, err)

	var messengerPaths, discordPaths []string
	for _, f := range files {
		switch f.Source {
		case chat.SourceMessenger:
			messengerPaths = append(messengerPaths, f.Path)
		case chat.SourceDiscord:
			discordPaths = append(discordPaths, f.Path)
			assert.Equal(t, int64(2+len("ID,Timestamp,Contents,Attachments\n")), f.Size)
		}
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(messenger, "inbox", "a_1", "message_1.json"),
		filepath.Join(messenger, "inbox", "a_1", "message_2.json"),
	}, messengerPaths)
	assert.Equal(t, []string{filepath.Join(discord, "messages", "c1")}, discordPaths)
}

func TestScanRoots_MissingRootsSkipped(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	files, err := ScanRoots(missing, "")
	require.NoError(t, err)
	assert.Empty(t, files)
}
