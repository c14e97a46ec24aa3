package service

import (
	"context"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// PageFunc fetches one provider page for the given continuation cursor.
// An empty cursor requests the first page.
type PageFunc func(ctx context.Context, cursor string) (*PageResult, error)

// PageResult is one page of raw provider records
type PageResult struct {
	Items      []entity.RawRecord
	NextCursor string // empty means no more pages
}

// StopReason explains why pagination ended
type StopReason string

const (
	StopMaxItems  StopReason = "max_items"
	StopEarly     StopReason = "early_stop"
	StopExhausted StopReason = "exhausted"
)

// StopPolicy determines when pagination ends
type StopPolicy struct {
	// MaxItems caps the accumulated item count. Must be positive.
	MaxItems int
	// EarlyStop, when set, is evaluated against the accumulator after each
	// page; returning true ends pagination before exhaustion.
	EarlyStop func(accumulated []entity.RawRecord) bool
}

// PaginateResult is the final accumulator state of one pagination run
type PaginateResult struct {
	Items      []entity.RawRecord
	Truncated  bool
	StopReason StopReason
}

// Paginate drives fetchPage sequentially from an empty cursor until the stop
// policy fires or the provider signals exhaustion with an empty next cursor.
// Each call depends on the previous cursor, so pages are never fetched in
// parallel. A provider returning the same non-empty cursor on two consecutive
// calls violates the pagination contract and aborts the run with
// entity.ErrPaginationStalled. Any fetchPage error propagates immediately and
// the partial accumulation is discarded.
func Paginate(ctx context.Context, fetchPage PageFunc, policy StopPolicy) (*PaginateResult, error) {
	if policy.MaxItems <= 0 {
		return nil, entity.ErrInvalidMaxItems
	}

	var items []entity.RawRecord
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)

		if len(items) >= policy.MaxItems {
			return &PaginateResult{
				Items:      items[:policy.MaxItems],
				Truncated:  true,
				StopReason: StopMaxItems,
			}, nil
		}

		if policy.EarlyStop != nil && policy.EarlyStop(items) {
			return &PaginateResult{
				Items:      items,
				Truncated:  true,
				StopReason: StopEarly,
			}, nil
		}

		if page.NextCursor == "" {
			return &PaginateResult{
				Items:      items,
				Truncated:  false,
				StopReason: StopExhausted,
			}, nil
		}

		if page.NextCursor == cursor {
			return nil, entity.ErrPaginationStalled
		}
		cursor = page.NextCursor
	}
}
