package service

import (
	"context"
	"sync"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// DetailFunc fetches the detail record for one item ID
type DetailFunc func(ctx context.Context, id string) (entity.RawRecord, error)

// DetailResult is the per-position outcome of a batched detail fetch
type DetailResult struct {
	Value entity.RawRecord
	Err   error
}

// FetchDetails enriches ids through detail calls with bounded concurrency.
// IDs are partitioned into consecutive chunks of size concurrency; a chunk's
// calls run concurrently and the whole chunk is awaited before the next one
// starts. The result slice has the same length and order as ids regardless of
// completion order. One item failing does not abort the batch: its error is
// captured at that position and the caller decides whether partial enrichment
// is acceptable.
func FetchDetails(ctx context.Context, ids []string, detail DetailFunc, concurrency int) ([]DetailResult, error) {
	if concurrency <= 0 {
		return nil, entity.ErrInvalidConcurrency
	}

	results := make([]DetailResult, len(ids))

	for start := 0; start < len(ids); start += concurrency {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + concurrency
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				value, err := detail(ctx, ids[i])
				results[i] = DetailResult{Value: value, Err: err}
			}(i)
		}
		wg.Wait()
	}

	return results, nil
}
