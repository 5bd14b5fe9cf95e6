package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tempo/internal/models"
)

// Relational is the database-backed Store. All values are bound as
// parameters; wire field names are translated to columns through the
// mapping tables in columns.go and nowhere else.
type Relational struct {
	db *gorm.DB
	lg *zap.SugaredLogger
}

// Open connects to postgres and migrates the schema. Callers degrade to the
// fallback store when this fails; the error is classified so the log says
// whether the host or the credentials are the problem.
func Open(dsn string, lg *zap.SugaredLogger) (*Relational, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, classifyConnectErr(err)
	}
	return NewRelational(db, lg)
}

// NewRelational wraps an existing gorm handle. Tests use this with sqlite.
func NewRelational(db *gorm.DB, lg *zap.SugaredLogger) (*Relational, error) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &Relational{db: db, lg: lg}, nil
}

func classifyConnectErr(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password") || strings.Contains(msg, "authentication"):
		return fmt.Errorf("database credentials rejected: %w", err)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "dial"):
		return fmt.Errorf("cannot reach database host: %w", err)
	default:
		return fmt.Errorf("database connect failed: %w", err)
	}
}

// DB exposes the handle so the database session store can share the pool.
func (s *Relational) DB() *gorm.DB { return s.db }

func (s *Relational) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return ErrUnavailable
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		s.lg.Warnw("database ping failed", "error", err)
		return ErrUnavailable
	}
	return nil
}

func (s *Relational) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// wrap maps gorm errors to the store taxonomy.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") || strings.Contains(msg, "closed") {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return err
}

// deleteRows runs a delete and reports whether any row existed.
func (s *Relational) deleteRows(ctx context.Context, model any, query string, args ...any) (bool, error) {
	res := s.db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}
