// Package db wires the Postgres connection and owns the automigrate set for
// every entity in internal/domain.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/interviewcoach/coach/internal/domain"
	"github.com/interviewcoach/coach/internal/platform/envutil"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	if dsn := envutil.String("DATABASE_URL", ""); dsn != "" {
		return open(dsn, serviceLog)
	}

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "interviewcoach")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	return open(dsn, serviceLog)
}

func open(dsn string, log *logger.Logger) (*PostgresService, error) {
	log.Info("connecting to postgres")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp: %w", err)
	}

	return &PostgresService{db: gdb, log: log}, nil
}

// AutoMigrateAll migrates every entity table. Order matters only for the
// explicit foreign keys added afterward; GORM resolves column-level
// constraints from struct tags for the rest.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("auto migrating tables")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.Document{},
		&domain.Skill{},
		&domain.SkillEvidence{},
		&domain.Gap{},
		&domain.StudyPlan{},
		&domain.Week{},
		&domain.Day{},
		&domain.Task{},
		&domain.Rubric{},
		&domain.PracticeItem{},
		&domain.Attempt{},
		&domain.Evaluation{},
		&domain.Mastery{},
		&domain.CalendarEvent{},
	)
	if err != nil {
		s.log.Error("auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }
