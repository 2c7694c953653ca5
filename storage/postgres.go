// storage/postgres.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"padel-club-api/config"
	"padel-club-api/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the postgres-backed persistence handle. It is created once at
// process start and closed on shutdown.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// Open connects to postgres and configures the connection pool.
func Open(cfg config.DatabaseConfig, log *zap.SugaredLogger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return New(db, log), nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// Migrate creates the six record tables and the three link tables if absent.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	joins := []struct {
		model any
		field string
		link  any
	}{
		{&models.User{}, "Classes", &models.UserClassLink{}},
		{&models.Class{}, "Students", &models.UserClassLink{}},
		{&models.User{}, "Events", &models.UserEventLink{}},
		{&models.Event{}, "Participants", &models.UserEventLink{}},
		{&models.User{}, "Teams", &models.UserTeamLink{}},
		{&models.Team{}, "Members", &models.UserTeamLink{}},
	}
	for _, j := range joins {
		if err := db.SetupJoinTable(j.model, j.field, j.link); err != nil {
			return fmt.Errorf("setup join table %T.%s: %w", j.model, j.field, err)
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Event{},
		&models.Team{},
		&models.Match{},
		&models.Announcement{},
		&models.UserClassLink{},
		&models.UserEventLink{},
		&models.UserTeamLink{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	s.log.Infow("database schema ready")
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// first loads a single record by primary key.
func first[T any](ctx context.Context, db *gorm.DB, id uint, preloads ...string) (*T, error) {
	var out T
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// adjustCredits applies delta to a user's recovery balance inside tx and
// returns the resulting balance.
func adjustCredits(tx *gorm.DB, userID uint, delta int) (int, error) {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("classes_to_recover", gorm.Expr("classes_to_recover + ?", delta))
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var balance int
	if err := tx.Model(&models.User{}).
		Select("classes_to_recover").
		Where("id = ?", userID).
		Row().Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}
