package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

func TestFetchDetailsOrderMatchesInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}

	// later items in a chunk finish before earlier ones
	detail := func(ctx context.Context, id string) (entity.RawRecord, error) {
		if id == "a" || id == "d" {
			time.Sleep(10 * time.Millisecond)
		}
		return entity.RawRecord{"id": id}, nil
	}

	results, err := FetchDetails(context.Background(), ids, detail, 3)
	require.NoError(t, err)
	require.Len(t, results, len(ids))
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, ids[i], res.Value["id"])
	}
}

func TestFetchDetailsPerItemFailure(t *testing.T) {
	boom := errors.New("detail failed")
	detail := func(ctx context.Context, id string) (entity.RawRecord, error) {
		if id == "bad" {
			return nil, boom
		}
		return entity.RawRecord{"id": id}, nil
	}

	results, err := FetchDetails(context.Background(), []string{"ok1", "bad", "ok2"}, detail, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "ok2", results[2].Value["id"])
}

func TestFetchDetailsBoundedConcurrency(t *testing.T) {
	var inFlight, peak int64

	detail := func(ctx context.Context, id string) (entity.RawRecord, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return entity.RawRecord{"id": id}, nil
	}

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	_, err := FetchDetails(context.Background(), ids, detail, 4)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(4))
}

func TestFetchDetailsInvalidConcurrency(t *testing.T) {
	_, err := FetchDetails(context.Background(), []string{"a"}, nil, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidConcurrency)
}

func TestFetchDetailsEmptyInput(t *testing.T) {
	results, err := FetchDetails(context.Background(), nil, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFetchDetailsCancelledBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	detail := func(ctx context.Context, id string) (entity.RawRecord, error) {
		cancel()
		return entity.RawRecord{"id": id}, nil
	}

	_, err := FetchDetails(ctx, []string{"a", "b"}, detail, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
