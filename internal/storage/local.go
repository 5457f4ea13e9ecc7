package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage moves finished audio artifacts into the served output
// directory. Files under outputDir are exposed verbatim at /downloads/.
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a local artifact store rooted at outputDir.
func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{outputDir: outputDir}
}

// SaveAudio moves a converted file from its temp location into a dated
// directory (outputs/2025/01/23/) under a timestamped, sanitized name and
// returns the local path plus the public download URL.
func (ls *LocalStorage) SaveAudio(title, tempPath string) (string, string, error) {
	now := time.Now()
	dateDir := filepath.Join(ls.outputDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create date directory: %v", err)
	}

	ext := filepath.Ext(tempPath)
	filename := fmt.Sprintf("%s_%s%s", now.Format("20060102_150405"), sanitizeFilename(title), ext)
	destPath := filepath.Join(dateDir, filename)

	if err := moveFile(tempPath, destPath); err != nil {
		return "", "", fmt.Errorf("failed to store audio file: %v", err)
	}

	rel, err := filepath.Rel(ls.outputDir, destPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve download path: %v", err)
	}

	return destPath, "/downloads/" + filepath.ToSlash(rel), nil
}

// moveFile renames when possible and falls back to copy-and-remove when
// temp and output live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// sanitizeFilename replaces characters that are unsafe in filenames and
// caps the length.
func sanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 32 {
			return '_'
		}
		return r
	}, name)

	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		sanitized = "untitled"
	}
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	return sanitized
}
