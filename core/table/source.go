package table

import "context"

// Source serves pages of a table. In-memory and server-driven sources take the same Query and return the same PageResult.
type Source interface {
	Fetch(ctx context.Context, q Query) (PageResult, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, q Query) (PageResult, error)

func (fn SourceFunc) Fetch(ctx context.Context, q Query) (PageResult, error) {
	return fn(ctx, q)
}

// MemorySource runs the engine over a full row set held in memory.
type MemorySource struct {
	rows []Row
}

var _ Source = (*MemorySource)(nil)

func NewMemorySource(rows []Row) *MemorySource {
	return &MemorySource{rows: rows}
}

func (src *MemorySource) Fetch(_ context.Context, q Query) (PageResult, error) {
	return Run(src.rows, q), nil
}
