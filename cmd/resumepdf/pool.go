package main

import (
	"context"

	resumepdf "github.com/alnah/go-resumepdf"
)

// Exporter is the part of resumepdf.Exporter the CLI uses.
type Exporter interface {
	Export(ctx context.Context, format resumepdf.Format, p resumepdf.Payload) (*resumepdf.Result, error)
}

var _ Exporter = (*resumepdf.Exporter)(nil)

// Pool abstracts the exporter pool for testability.
type Pool interface {
	Acquire(ctx context.Context) (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

// exporterPool adapts resumepdf.ExporterPool to Pool.
type exporterPool struct {
	pool *resumepdf.ExporterPool
}

var _ Pool = (*exporterPool)(nil)

func newExporterPool(size int, opts ...resumepdf.Option) Pool {
	return &exporterPool{pool: resumepdf.NewExporterPool(size, opts...)}
}

func (p *exporterPool) Acquire(ctx context.Context) (Exporter, error) {
	e, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *exporterPool) Release(e Exporter) {
	if x, ok := e.(*resumepdf.Exporter); ok {
		p.pool.Release(x)
	}
}

func (p *exporterPool) Size() int    { return p.pool.Size() }
func (p *exporterPool) Close() error { return p.pool.Close() }
