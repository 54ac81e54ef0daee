package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/driveline-backend/internal/domain/aggregates"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

// maxWriteAttempts bounds transparent retries of retryable transaction
// failures (serialization aborts, deadlocks). Past this the failure surfaces
// to the caller as transient.
const maxWriteAttempts = 3

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs fn inside one transaction, maps failures to aggregate
// error codes, and retries retryable failures a bounded number of times.
// fn must be safe to re-run: every decision it makes has to come from reads
// performed inside the transaction.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	var mapped error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err := deps.Runner.InTx(ctx, fn)
		mapped = MapError(op, err)
		if mapped == nil || !domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			break
		}
		deps.Hooks.IncRetry(op)
		if attempt < maxWriteAttempts && ctx.Err() == nil {
			continue
		}
	}

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
