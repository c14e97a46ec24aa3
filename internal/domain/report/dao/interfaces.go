package dao

import (
	"context"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// RunRepository persists completed report runs
type RunRepository interface {
	Create(ctx context.Context, run *entity.ReportRun) error
	ListByAccount(ctx context.Context, platform entity.Platform, accountRef string, limit int) ([]entity.ReportRun, error)
	ListRecentAccounts(ctx context.Context, since int, limit int) ([]entity.ReportRun, error)
}
