package calculator

import (
	"context"
	"fmt"
	"time"

	"decimal-calculator/internal/observability"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "calculator"

// Evaluate is New wrapped in a span, metrics and a trace-correlated log
// line. The returned error is always an *OperationError.
func Evaluate(ctx context.Context, op Operation, operand1, operand2 decimal.Decimal) (Calculation, error) {
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("calculator.%s", op),
		trace.WithAttributes(
			attribute.String("calculator.operation", string(op)),
			attribute.String("calculator.operand1", operand1.String()),
			attribute.String("calculator.operand2", operand2.String()),
			observability.RunIDAttribute(ctx),
		),
	)
	defer span.End()

	start := time.Now()
	calc, err := New(op, operand1, operand2)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, string(op), err.Error(), err)
		return Calculation{}, err
	}

	attrs := metric.WithAttributes(attribute.String("operation", string(op)))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, calc.result.InexactFloat64(), attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", calc.result.String()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", calc.result.String()))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", string(op)),
		zap.String("operand1", operand1.String()),
		zap.String("operand2", operand2.String()),
		zap.String("result", calc.result.String()),
		observability.RunIDField(ctx),
		zap.Float64("duration_ms", elapsed),
	)

	return calc, nil
}
