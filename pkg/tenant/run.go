package tenant

import "context"

// RunScoped runs work with t active and returns its result.
//
// A new cell is bound to the context passed to work, so an outer unit is
// never modified. The cell is cleared once work returns, errors, panics or
// the context is cancelled; the work's own error or panic is propagated
// unchanged. If ctx is already done, work is not invoked.
func RunScoped[T any](ctx context.Context, t *Tenant, work func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if t == nil {
		return zero, ErrTenantNotFound
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ctx, cell := WithCell(ctx)
	cell.Set(t)
	defer cell.Clear()

	return work(ctx)
}

// Run is RunScoped for work without a result.
func Run(ctx context.Context, t *Tenant, work func(ctx context.Context) error) error {
	_, err := RunScoped(ctx, t, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, work(ctx)
	})
	return err
}
