package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ConversionRecord is one finished conversion as persisted in sqlite.
type ConversionRecord struct {
	JobID       string    `json:"job_id"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"source_url"`
	Format      string    `json:"format"`
	LocalPath   string    `json:"local_path"`
	DownloadURL string    `json:"download_url"`
	Duration    float64   `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}

// MetadataDB records finished conversions so history survives the
// in-memory job registry (and a restart).
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB opens (and if needed initializes) the sqlite database.
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		source_url TEXT NOT NULL,
		format TEXT NOT NULL,
		local_path TEXT NOT NULL,
		download_url TEXT NOT NULL,
		duration REAL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveConversion inserts the record of a completed job.
func (mdb *MetadataDB) SaveConversion(jobID, title, sourceURL, format, localPath, downloadURL string, duration float64) error {
	if format == "" {
		format = "mp3"
	}

	query := `
	INSERT INTO conversions (job_id, title, source_url, format, local_path, download_url, duration, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mdb.db.Exec(query, jobID, title, sourceURL, format, localPath, downloadURL, duration, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save conversion metadata: %v", err)
	}
	return nil
}

// GetConversion retrieves one record by job ID.
func (mdb *MetadataDB) GetConversion(jobID string) (*ConversionRecord, error) {
	query := `
	SELECT job_id, title, source_url, format, local_path, download_url, duration, created_at
	FROM conversions WHERE job_id = ?
	`

	var rec ConversionRecord
	err := mdb.db.QueryRow(query, jobID).Scan(
		&rec.JobID, &rec.Title, &rec.SourceURL, &rec.Format,
		&rec.LocalPath, &rec.DownloadURL, &rec.Duration, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %v", err)
	}
	return &rec, nil
}

// ListConversions returns the most recent records, newest first.
func (mdb *MetadataDB) ListConversions(limit int) ([]ConversionRecord, error) {
	query := `
	SELECT job_id, title, source_url, format, local_path, download_url, duration, created_at
	FROM conversions ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %v", err)
	}
	defer rows.Close()

	records := make([]ConversionRecord, 0)
	for rows.Next() {
		var rec ConversionRecord
		if err := rows.Scan(
			&rec.JobID, &rec.Title, &rec.SourceURL, &rec.Format,
			&rec.LocalPath, &rec.DownloadURL, &rec.Duration, &rec.CreatedAt); err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Close closes the database connection.
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
