package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Results implements ports.ResultStore over a Redis hash. Each field is a
// result ID and each value the JSON of its ports.ResultRef.
type Results struct {
	client *backend.Client
	key    string
}

// NewResults reads results from the hash at key, or ports.ResultsKey when key is empty.
func NewResults(client *backend.Client, key string) *Results {
	if key == "" {
		key = ports.ResultsKey
	}
	return &Results{client: client, key: key}
}

// Result looks up one result.
func (r *Results) Result(ctx context.Context, resultID string) (ports.ResultRef, error) {
	raw, err := r.client.HGet(ctx, r.key, resultID).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return ports.ResultRef{}, domain.ErrResultNotFound
		}
		return ports.ResultRef{}, fmt.Errorf("failed to read result %s: %w", resultID, err)
	}
	return decodeRef(resultID, raw)
}

// Results returns every result, ordered by ID.
func (r *Results) Results(ctx context.Context) ([]ports.ResultRef, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	out := make([]ports.ResultRef, 0, len(all))
	for id, raw := range all {
		ref, err := decodeRef(id, []byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func decodeRef(id string, raw []byte) (ports.ResultRef, error) {
	var ref ports.ResultRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return ports.ResultRef{}, fmt.Errorf("result %s: %w", id, err)
	}
	if ref.ID == "" {
		ref.ID = id
	}
	return ref, nil
}
