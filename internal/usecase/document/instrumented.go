package document

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/metrics"
	"github.com/mtsarev06/es-orm/internal/repository/document"
	domdoc "github.com/mtsarev06/es-orm/internal/domain/document"
)

// InstrumentedService wraps Service with logging and Prometheus metrics.
// Metrics must be registered explicitly via metrics.RegisterORMMetrics.
type InstrumentedService struct {
	inner  Operations
	logger *zap.Logger
}

var _ Operations = (*InstrumentedService)(nil)

// NewInstrumented wraps a document service with observability.
func NewInstrumented(inner Operations, logger *zap.Logger) *InstrumentedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedService{inner: inner, logger: logger}
}

// Save delegates and records duration, status and validation flags.
func (p *InstrumentedService) Save(ctx context.Context, index string, doc *domdoc.Document) error {
	start := time.Now()
	err := p.inner.Save(ctx, index, doc)
	p.observe("save", start, err)
	if err != nil {
		p.logger.Error("Document save failed", zap.String("index", index), zap.Error(err))
		return err
	}

	for name, e := range doc.Fields() {
		if e.Flag != "" {
			metrics.ValidationFlagsTotal.WithLabelValues(index, name).Inc()
			p.logger.Warn("Validation flag recorded",
				zap.String("index", index),
				zap.String("field", name),
				zap.String("flag", e.Flag),
			)
		}
	}
	p.logger.Debug("Document saved",
		zap.String("index", index),
		zap.String("id", doc.Meta().ID),
	)
	return nil
}

// Get delegates and records duration and status.
func (p *InstrumentedService) Get(
	ctx context.Context, index string, sch *schema.Schema, id string,
) (*domdoc.Document, error) {
	start := time.Now()
	doc, err := p.inner.Get(ctx, index, sch, id)
	p.observe("get", start, err)
	return doc, err
}

// Set delegates and records duration and status.
func (p *InstrumentedService) Set(
	ctx context.Context, index string, sch *schema.Schema, id string, values map[string]any,
) (*domdoc.Document, error) {
	start := time.Now()
	doc, err := p.inner.Set(ctx, index, sch, id, values)
	p.observe("set", start, err)
	return doc, err
}

// Delete delegates and records duration and status.
func (p *InstrumentedService) Delete(ctx context.Context, index, id string) error {
	start := time.Now()
	err := p.inner.Delete(ctx, index, id)
	p.observe("delete", start, err)
	return err
}

// Exists delegates and records duration and status.
func (p *InstrumentedService) Exists(ctx context.Context, index, id string) (bool, error) {
	start := time.Now()
	ok, err := p.inner.Exists(ctx, index, id)
	p.observe("exists", start, err)
	return ok, err
}

// Count delegates and records duration and status.
func (p *InstrumentedService) Count(ctx context.Context, index string) (int, error) {
	start := time.Now()
	n, err := p.inner.Count(ctx, index)
	p.observe("count", start, err)
	return n, err
}

// BulkSave delegates and records duration and status.
func (p *InstrumentedService) BulkSave(
	ctx context.Context, index string, docs []*domdoc.Document,
) ([]document.Outcome, error) {
	start := time.Now()
	outcomes, err := p.inner.BulkSave(ctx, index, docs)
	p.observe("bulk_save", start, err)
	if err == nil {
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
			}
		}
		p.logger.Info("Bulk save finished",
			zap.String("index", index),
			zap.Int("total", len(outcomes)),
			zap.Int("failed", failed),
		)
	}
	return outcomes, err
}

func (p *InstrumentedService) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.OperationsTotal.WithLabelValues(op, status).Inc()
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
