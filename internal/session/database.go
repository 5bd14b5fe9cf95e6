package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tempo/internal/models"
)

const (
	retryCeiling = 5
	retryBase    = 100 * time.Millisecond
	retryMax     = 2 * time.Second
)

// Database persists sessions in the sessions table, sharing the relational
// store's pool. Operations retry with exponential backoff up to a fixed
// ceiling on connection loss and then fail with ErrUnavailable.
type Database struct {
	db *gorm.DB
	lg *zap.SugaredLogger
}

func NewDatabase(db *gorm.DB, lg *zap.SugaredLogger) *Database {
	return &Database{db: db, lg: lg}
}

func (s *Database) Get(ctx context.Context, sid string) (*Data, error) {
	var rec models.SessionRecord
	err := s.retry(ctx, "get", func() error {
		return s.db.WithContext(ctx).First(&rec, "sid = ?", sid).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// expired rows read as no session; the cleaner reclaims them later
	if time.Now().After(rec.ExpiresAt) {
		return nil, nil
	}
	return decode(rec.Data)
}

func (s *Database) Set(ctx context.Context, sid string, data *Data, ttl time.Duration) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}
	rec := models.SessionRecord{SID: sid, Data: raw, ExpiresAt: time.Now().Add(ttl)}
	return s.retry(ctx, "set", func() error {
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sid"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
		}).Create(&rec).Error
	})
}

func (s *Database) Destroy(ctx context.Context, sid string) error {
	return s.retry(ctx, "destroy", func() error {
		return s.db.WithContext(ctx).Delete(&models.SessionRecord{}, "sid = ?", sid).Error
	})
}

func (s *Database) Touch(ctx context.Context, sid string, ttl time.Duration) error {
	return s.retry(ctx, "touch", func() error {
		return s.db.WithContext(ctx).Model(&models.SessionRecord{}).
			Where("sid = ? AND expires_at > ?", sid, time.Now()).
			Update("expires_at", time.Now().Add(ttl)).Error
	})
}

func (s *Database) Len(ctx context.Context) (int, error) {
	var n int64
	err := s.retry(ctx, "len", func() error {
		return s.db.WithContext(ctx).Model(&models.SessionRecord{}).
			Where("expires_at > ?", time.Now()).Count(&n).Error
	})
	return int(n), err
}

func (s *Database) Clear(ctx context.Context) error {
	return s.retry(ctx, "clear", func() error {
		return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.SessionRecord{}).Error
	})
}

// DeleteExpired removes at most limit dead rows so a big backlog never holds
// a long write lock. The cleaner calls this repeatedly with a pause.
func (s *Database) DeleteExpired(ctx context.Context, limit int) (int64, error) {
	var affected int64
	err := s.retry(ctx, "delete_expired", func() error {
		sub := s.db.Model(&models.SessionRecord{}).
			Select("sid").
			Where("expires_at < ?", time.Now()).
			Limit(limit)
		res := s.db.WithContext(ctx).Where("sid IN (?)", sub).Delete(&models.SessionRecord{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// retry runs op with bounded exponential backoff on connection errors.
func (s *Database) retry(ctx context.Context, name string, op func() error) error {
	delay := retryBase
	var err error
	for attempt := 1; attempt <= retryCeiling; attempt++ {
		err = op()
		if err == nil || !isConnErr(err) {
			return err
		}
		s.lg.Warnw("session store unreachable, retrying",
			"op", name, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > retryMax {
			delay = retryMax
		}
	}
	s.lg.Errorw("session store unavailable", "op", name, "error", err)
	return ErrUnavailable
}

func isConnErr(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "database is closed")
}
