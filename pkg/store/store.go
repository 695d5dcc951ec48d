// Package store persists extraction rows in PostgreSQL through GORM.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gardar/hukou/pkg/batch"
)

// PersonalRecord is one processed image of one run.
type PersonalRecord struct {
	gorm.Model
	RunID     string `gorm:"index;size:36;not null"`
	Index     int    `gorm:"column:row_index;not null"`
	Filename  string `gorm:"not null"`
	Name      string
	Sex       string
	IDNumber  string `gorm:"column:id_number;size:18"`
	Birth     string
	Address   string
	Extracted bool
	Error     string
}

// TableName keeps the table name stable regardless of naming strategy.
func (PersonalRecord) TableName() string {
	return "personal_records"
}

// FromRow maps a batch row to its database form.
func FromRow(runID string, row batch.Row) PersonalRecord {
	rec := PersonalRecord{
		RunID:     runID,
		Index:     row.Index,
		Filename:  row.Filename,
		Extracted: row.Extracted(),
	}
	if rec.Extracted {
		rec.Name = row.Record.Name
		rec.Sex = row.Record.Sex
		rec.IDNumber = row.Record.ID
		rec.Birth = row.Record.Birth
		rec.Address = row.Record.Addr
	}
	if row.Err != nil {
		rec.Error = row.Err.Error()
	}
	return rec
}

// Store writes runs to the database.
type Store struct {
	db *gorm.DB
}

// Open connects to databaseURL and migrates the schema.
func Open(databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&PersonalRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	return &Store{db: db}, nil
}

// NewRunID returns a fresh identifier for one batch run.
func NewRunID() string {
	return uuid.New().String()
}

// SaveRun stores every row of a run in one transaction.
func (s *Store) SaveRun(ctx context.Context, runID string, rows []batch.Row) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]PersonalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromRow(runID, row))
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", runID, err)
	}
	return nil
}

// Run returns the rows stored for runID in index order.
func (s *Store) Run(ctx context.Context, runID string) ([]PersonalRecord, error) {
	var records []PersonalRecord
	if err := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("row_index").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return records, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
