package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jsphweid/voicedex/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLiteStore struct {
	DB *gorm.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.AutoMigrate(&model.QualityReport{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &SQLiteStore{DB: db}, nil
}

func prepare(reports []model.QualityReport) {
	now := time.Now()
	for i := range reports {
		if reports[i].ID == "" {
			reports[i].ID = uuid.New().String()
		}
		if reports[i].CreatedAt.IsZero() {
			reports[i].CreatedAt = now
		}
	}
}

func (s *SQLiteStore) Save(reports []model.QualityReport) error {
	if len(reports) == 0 {
		return nil
	}
	prepare(reports)
	if err := s.DB.CreateInBatches(reports, 100).Error; err != nil {
		return fmt.Errorf("saving reports: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List() ([]model.QualityReport, error) {
	var res []model.QualityReport
	if err := s.DB.Order("file").Find(&res).Error; err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return res, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
