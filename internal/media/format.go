package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadExtensions are the containers accepted over HTTP.
var UploadExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

// WatchExtensions are the containers picked up from the inbox folder.
var WatchExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}

// HasExtension reports whether path ends in one of exts, ignoring case.
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// FormatTimestamp renders seconds as MM:SS below an hour and HH:MM:SS above.
// With forFilename it always renders 00h00m00s.
func FormatTimestamp(seconds float64, forFilename bool) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60

	if forFilename {
		return fmt.Sprintf("%02dh%02dm%02ds", h, m, s)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
