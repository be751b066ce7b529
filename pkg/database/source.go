package database

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/lris-api/pkg/config"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

// connectTimeout bounds a shared connection attempt once no caller's ctx does.
const connectTimeout = 15 * time.Second

// OpenFunc establishes a new pool.
type OpenFunc func(ctx context.Context) (*sqlx.DB, error)

// Source hands out the single shared pool used by every repository.
// The pool is opened on the first Acquire and reused until Close.
type Source struct {
	open   OpenFunc
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	db    *sqlx.DB
}

// NewSource builds a lazily connecting PostgreSQL source.
func NewSource(cfg config.DatabaseConfig, logger *zap.Logger) *Source {
	return NewSourceWithOpener(func(ctx context.Context) (*sqlx.DB, error) {
		return NewPostgres(ctx, cfg)
	}, logger)
}

// NewSourceWithOpener builds a source around a custom opener.
func NewSourceWithOpener(open OpenFunc, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{open: open, logger: logger}
}

// NewSourceFromDB wraps an already open pool.
func NewSourceFromDB(db *sqlx.DB) *Source {
	return &Source{logger: zap.NewNop(), db: db}
}

// Acquire returns the shared pool. Concurrent first callers wait on a single
// connection attempt and all observe its outcome. The attempt is detached from
// any one caller: a caller whose ctx ends stops waiting and gets ctx.Err(),
// while the others keep waiting. Failures are reported as connectivity errors
// and are not retried here; the next call tries again.
func (s *Source) Acquire(ctx context.Context) (*sqlx.DB, error) {
	if db := s.current(); db != nil {
		return db, nil
	}

	ch := s.group.DoChan("acquire", func() (interface{}, error) {
		return s.connect(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*sqlx.DB), nil
	}
}

func (s *Source) connect(ctx context.Context) (*sqlx.DB, error) {
	if db := s.current(); db != nil {
		return db, nil
	}
	if s.open == nil {
		return nil, appErrors.Clone(appErrors.ErrConnectivity, "data store not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := s.open(ctx)
	if err != nil {
		s.logger.Error("database connection failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrConnectivity.Code, appErrors.ErrConnectivity.Status, appErrors.ErrConnectivity.Message)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	s.logger.Info("database connection established")
	return db, nil
}

// Ping checks the store is reachable, opening the pool if needed.
func (s *Source) Ping(ctx context.Context) error {
	db, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrConnectivity.Code, appErrors.ErrConnectivity.Status, appErrors.ErrConnectivity.Message)
	}
	return nil
}

// Close releases the pool. A later Acquire opens a fresh one.
func (s *Source) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

func (s *Source) current() *sqlx.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}
