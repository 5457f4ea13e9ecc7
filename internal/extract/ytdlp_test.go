package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"mp3", true},
		{"m4a", true},
		{"MP3", true},
		{"wav", false},
		{"opus", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateFormat(tt.format); got != tt.want {
			t.Errorf("ValidateFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestValidateQuality(t *testing.T) {
	tests := []struct {
		quality string
		want    bool
	}{
		{"best", true},
		{"320", true},
		{"192", true},
		{"128", true},
		{"BEST", true},
		{"256", false},
		{"lossless", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateQuality(tt.quality); got != tt.want {
			t.Errorf("ValidateQuality(%q) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

func TestParseInfoJSON(t *testing.T) {
	t.Run("full info", func(t *testing.T) {
		data := []byte(`{"id":"dQw4w9WgXcQ","title":"Never Gonna Give You Up","duration":212.0,"uploader":"Rick Astley"}`)
		info, err := parseInfoJSON(data)
		require.NoError(t, err)
		assert.Equal(t, "dQw4w9WgXcQ", info.ID)
		assert.Equal(t, "Never Gonna Give You Up", info.Title)
		assert.EqualValues(t, 212, info.Duration)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		info, err := parseInfoJSON([]byte("\n{\"id\":\"x\",\"title\":\"t\"}\n"))
		require.NoError(t, err)
		assert.Equal(t, "x", info.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := parseInfoJSON([]byte(`{"title":"no id here"}`))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseInfoJSON([]byte("ERROR: video unavailable"))
		assert.Error(t, err)
	})
}

func TestFindByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.webm"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.mp3"), []byte("x"), 0644))

	path, err := findByExt(dir, "mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.mp3"), path)

	_, err = findByExt(dir, "m4a")
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 10))
	assert.Equal(t, "...cde", tail("abcde", 3))
}
