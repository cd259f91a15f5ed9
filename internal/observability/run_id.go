package observability

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type runIDKey struct{}

// NewRunID returns a time-ordered (version 7) UUID, so run IDs sort by the
// moment the command started.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// EnsureRunID makes sure ctx carries a run ID. An ID already in ctx wins,
// then preferred (e.g. CALCULATOR_RUN_ID handed down by a calling script),
// then a fresh NewRunID.
func EnsureRunID(ctx context.Context, preferred string) (context.Context, string) {
	if id := RunIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := preferred
	if id == "" {
		id = NewRunID()
	}
	return ContextWithRunID(ctx, id), id
}

// RunIDField is the run_id log field, skipped when ctx has no run ID.
func RunIDField(ctx context.Context) zap.Field {
	id := RunIDFromContext(ctx)
	if id == "" {
		return zap.Skip()
	}
	return zap.String("run_id", id)
}

// RunIDAttribute is the span attribute carrying the run ID.
func RunIDAttribute(ctx context.Context) attribute.KeyValue {
	return attribute.String("run.id", RunIDFromContext(ctx))
}
