package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// bucketRow is one bucket snapshot in the buckets table.
type bucketRow struct {
	Name      string `gorm:"primaryKey"`
	Data      string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (bucketRow) TableName() string { return "buckets" }

// SQLBackend keeps buckets as rows of a SQLite table accessed through GORM.
type SQLBackend struct {
	db  *gorm.DB
	raw *sql.DB
}

// NewSQLBackend opens the SQLite database at path and migrates the schema.
func NewSQLBackend(path string) (*SQLBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}

	raw, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	raw.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{Conn: raw}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&bucketRow{}); err != nil {
		raw.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLBackend{db: db, raw: raw}, nil
}

func (s *SQLBackend) Get(b Bucket) ([]byte, bool, error) {
	var row bucketRow
	err := s.db.Where("name = ?", string(b)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get %s: %w", b, err)
	}
	return []byte(row.Data), true, nil
}

func (s *SQLBackend) Put(b Bucket, data []byte) error {
	row := bucketRow{Name: string(b), Data: string(data), UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", b, err)
	}
	return nil
}

func (s *SQLBackend) Close() error {
	return s.raw.Close()
}
