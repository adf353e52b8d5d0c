package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	database, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Auto-migrate schema
	if err := database.AutoMigrate(&models.CollectionRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func (s *SQLiteStorage) CreateCollectionRun(ctx context.Context, run *models.CollectionRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *SQLiteStorage) GetCollectionRun(ctx context.Context, id uint) (*models.CollectionRun, error) {
	var run models.CollectionRun
	err := s.db.WithContext(ctx).First(&run, id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLiteStorage) GetCollectionRuns(ctx context.Context, limit, offset int) ([]models.CollectionRun, int64, error) {
	var runs []models.CollectionRun
	var total int64

	s.db.WithContext(ctx).Model(&models.CollectionRun{}).Count(&total)

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&runs).Error
	return runs, total, err
}

func (s *SQLiteStorage) GetCollectionRunsByScript(ctx context.Context, script string, limit int) ([]models.CollectionRun, error) {
	var runs []models.CollectionRun
	query := s.db.WithContext(ctx).
		Where("script = ?", script).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

func (s *SQLiteStorage) DeleteCollectionRun(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.CollectionRun{}, id).Error
}

func (s *SQLiteStorage) DeleteAllCollectionRuns(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.CollectionRun{}).Error
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
