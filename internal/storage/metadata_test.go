package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *MetadataDB {
	t.Helper()
	db, err := NewMetadataDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndGetConversion(t *testing.T) {
	db := newTestDB(t)

	err := db.SaveConversion("job-1", "Lofi Mix", "https://example/video1", "mp3",
		"/data/outputs/2025/01/23/mix.mp3", "/downloads/2025/01/23/mix.mp3", 1234.5)
	require.NoError(t, err)

	rec, err := db.GetConversion("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", rec.JobID)
	assert.Equal(t, "Lofi Mix", rec.Title)
	assert.Equal(t, "https://example/video1", rec.SourceURL)
	assert.Equal(t, "mp3", rec.Format)
	assert.Equal(t, "/downloads/2025/01/23/mix.mp3", rec.DownloadURL)
	assert.Equal(t, 1234.5, rec.Duration)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestGetConversionUnknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetConversion("nope")
	assert.Error(t, err)
}

func TestSaveConversionDefaultsFormat(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveConversion("job-2", "T", "u", "", "p", "d", 0))
	rec, err := db.GetConversion("job-2")
	require.NoError(t, err)
	assert.Equal(t, "mp3", rec.Format)
}

func TestListConversions(t *testing.T) {
	db := newTestDB(t)

	for _, id := range []string{"job-a", "job-b", "job-c"} {
		require.NoError(t, db.SaveConversion(id, "T "+id, "u", "mp3", "p", "/downloads/"+id, 100))
	}

	records, err := db.ListConversions(10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	seen := map[string]bool{}
	for _, rec := range records {
		seen[rec.JobID] = true
	}
	assert.True(t, seen["job-a"] && seen["job-b"] && seen["job-c"])

	limited, err := db.ListConversions(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveConversionDuplicateJobID(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.SaveConversion("job-1", "T", "u", "mp3", "p", "d", 0))
	assert.Error(t, db.SaveConversion("job-1", "T", "u", "mp3", "p", "d", 0))
}
