package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/lris-api/internal/workflow"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

const selectionKeyPrefix = "lris:selection:"

// SelectionRepository keeps in-progress selection workflows in Redis.
type SelectionRepository struct {
	client *redis.Client
}

// NewSelectionRepository constructs a selection repository.
func NewSelectionRepository(client *redis.Client) *SelectionRepository {
	return &SelectionRepository{client: client}
}

// Save stores the workflow, replacing any previous value and refreshing its TTL.
func (r *SelectionRepository) Save(ctx context.Context, selection *workflow.Selection, ttl time.Duration) error {
	if r.client == nil {
		return appErrors.Clone(appErrors.ErrConnectivity, "selection store not configured")
	}
	payload, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("marshal selection %s: %w", selection.ID, err)
	}
	if err := r.client.Set(ctx, selectionKey(selection.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set selection %s: %w", selection.ID, err)
	}
	return nil
}

// Find loads a workflow. Expired or unknown ids return ErrCacheMiss.
func (r *SelectionRepository) Find(ctx context.Context, id string) (*workflow.Selection, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, selectionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get selection %s: %w", id, err)
	}
	var selection workflow.Selection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return nil, fmt.Errorf("unmarshal selection %s: %w", id, err)
	}
	return &selection, nil
}

func selectionKey(id string) string {
	return selectionKeyPrefix + id
}
