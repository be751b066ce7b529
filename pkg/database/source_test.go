package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lris-api/pkg/config"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestSourceAcquireReusesHandle(t *testing.T) {
	mockDB, _ := newMockDB(t)
	var opens int32
	src := NewSourceWithOpener(func(ctx context.Context) (*sqlx.DB, error) {
		atomic.AddInt32(&opens, 1)
		return mockDB, nil
	}, nil)

	first, err := src.Acquire(context.Background())
	require.NoError(t, err)
	second, err := src.Acquire(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestSourceConcurrentAcquireOpensOnce(t *testing.T) {
	mockDB, _ := newMockDB(t)
	var opens int32
	release := make(chan struct{})
	src := NewSourceWithOpener(func(ctx context.Context) (*sqlx.DB, error) {
		atomic.AddInt32(&opens, 1)
		<-release
		return mockDB, nil
	}, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*sqlx.DB, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := src.Acquire(context.Background())
			assert.NoError(t, err)
			results[i] = db
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	for _, db := range results {
		assert.Same(t, mockDB, db)
	}
}

func TestSourceAcquireFailureIsConnectivityError(t *testing.T) {
	src := NewSourceWithOpener(func(ctx context.Context) (*sqlx.DB, error) {
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	}, nil)

	_, err := src.Acquire(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConnectivity))
	assert.Equal(t, "CONNECTIVITY_ERROR", appErrors.FromError(err).Code)
}

func TestSourceFromDBAndClose(t *testing.T) {
	mockDB, mock := newMockDB(t)
	mock.ExpectClose()
	src := NewSourceFromDB(mockDB)

	db, err := src.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, mockDB, db)

	require.NoError(t, src.Close())
	_, err = src.Acquire(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrConnectivity))
}

func TestSourceAcquireSurvivesCancelledFirstCaller(t *testing.T) {
	mockDB, _ := newMockDB(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var opens int32
	src := NewSourceWithOpener(func(ctx context.Context) (*sqlx.DB, error) {
		atomic.AddInt32(&opens, 1)
		close(started)
		select {
		case <-release:
			return mockDB, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := src.Acquire(firstCtx)
		firstErr <- err
	}()
	<-started

	type result struct {
		db  *sqlx.DB
		err error
	}
	second := make(chan result, 1)
	go func() {
		db, err := src.Acquire(context.Background())
		second <- result{db: db, err: err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	err := <-firstErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, appErrors.ErrConnectivity))

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Same(t, mockDB, res.db)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestPostgresDSNQuotesValues(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db.local", Port: 5432, User: "lris", Password: `pa ss'w\rd`, Name: "lris", SSLMode: "disable",
	}

	dsn := postgresDSN(context.Background(), cfg)
	assert.Equal(t, `host=db.local port=5432 user=lris password='pa ss\'w\\rd' dbname=lris sslmode=disable application_name=lris-api`, dsn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.Contains(t, postgresDSN(ctx, cfg), "connect_timeout=")
}
