package etfpanel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	StageCalendar    = "calendar_query"
	StageMembership  = "etf_info_query"
	StageNav         = "netasset_query"
	StageCalculation = "calculation"
)

type StageTiming struct {
	Name    string
	Elapsed time.Duration
}

// stageRecorder runs each stage inside its own span and keeps the elapsed time,
// so the stage bodies stay free of clock calls.
type stageRecorder struct {
	tracer trace.Tracer
	stages []StageTiming
}

func (r *stageRecorder) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, name)
	defer span.End()

	began := time.Now()
	err := fn(ctx)
	r.stages = append(r.stages, StageTiming{Name: name, Elapsed: time.Since(began)})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
