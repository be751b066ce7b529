package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/lris-api/internal/workflow"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.True(t, errors.Is(repo.Get(ctx, "lris:catalog:slm:active", &dest), appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "lris:catalog:slm:active", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "lris:catalog:*"))
}

func TestSelectionRepositoryWithoutClient(t *testing.T) {
	repo := NewSelectionRepository(nil)
	ctx := context.Background()

	_, err := repo.Find(ctx, "abc")
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	err = repo.Save(ctx, workflow.New("abc", time.Now()), time.Minute)
	assert.True(t, errors.Is(err, appErrors.ErrConnectivity))
	assert.Equal(t, "lris:selection:abc", selectionKey("abc"))
}
