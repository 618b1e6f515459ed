package scan

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
	"github.com/Zuo-Peng/chat-analytics/internal/parse"
)

var messengerFile = regexp.MustCompile(`^message_\d+\.json$`)

// FileInfo is one export found on disk. For Discord, Path is the channel
// directory and Mtime/Size cover both of its files.
type FileInfo struct {
	Path   string
	Source chat.Source
	Mtime  int64
	Size   int64
}

func ScanRoots(messengerRoot, discordRoot string) ([]FileInfo, error) {
	var files []FileInfo

	if messengerRoot != "" {
		mf, err := scanMessenger(messengerRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, mf...)
	}

	if discordRoot != "" {
		df, err := scanDiscord(discordRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		files = append(files, df...)
	}

	return files, nil
}

func scanMessenger(root string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() || !messengerFile.MatchString(info.Name()) {
			return nil
		}
		files = append(files, FileInfo{
			Path:   path,
			Source: chat.SourceMessenger,
			Mtime:  info.ModTime().Unix(),
			Size:   info.Size(),
		})
		return nil
	})
	return files, err
}

func scanDiscord(root string) ([]FileInfo, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		ch, err := os.Stat(filepath.Join(path, parse.DiscordChannelFile))
		if err != nil || ch.IsDir() {
			return nil
		}
		msgs, err := os.Stat(filepath.Join(path, parse.DiscordMessagesFile))
		if err != nil || msgs.IsDir() {
			return nil
		}
		mtime := ch.ModTime()
		if msgs.ModTime().After(mtime) {
			mtime = msgs.ModTime()
		}
		files = append(files, FileInfo{
			Path:   path,
			Source: chat.SourceDiscord,
			Mtime:  mtime.Unix(),
			Size:   ch.Size() + msgs.Size(),
		})
		return nil
	})
	return files, err
}
