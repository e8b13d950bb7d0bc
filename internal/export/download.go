package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is "<base>_YYYYMMDD_HHMMSS.<ext>" in UTC with base reduced to
// filename-safe characters.
func Filename(base string, f Format, now time.Time) string {
	base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "_.")
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s_%s.%s", base, now.UTC().Format("20060102_150405"), f)
}

// DownloadDir is ~/Downloads when it exists, else the working directory.
func DownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		d := filepath.Join(home, "Downloads")
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			return d
		}
	}
	return "."
}

// Download writes blob to dir (DownloadDir when empty) under a timestamped
// name and returns the full path. An existing file is never overwritten.
func Download(dir, base string, f Format, blob []byte, now time.Time) (string, error) {
	if dir == "" {
		dir = DownloadDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	name := Filename(base, f, now)
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			path = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", strings.TrimSuffix(name, "."+string(f)), i, "."+string(f)))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if _, err := fh.Write(blob); err != nil {
			fh.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, fh.Close()
	}
}
