// Package telemetry provides OpenTelemetry observability for Muster
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Meter is the global meter for Muster metrics
var meter = otel.Meter("muster")

// Attribute keys
const (
	KeyOutcome    = "muster.outcome"
	KeyChangeType = "muster.change_type"
	KeyErrorType  = "muster.error_type"
)

// Counter instruments
var (
	transitionsCounter   metric.Int64Counter
	storiesParsedCounter metric.Int64Counter
	specChangesCounter   metric.Int64Counter
	planMergesCounter    metric.Int64Counter
	warningsCounter      metric.Int64Counter
)

// Histogram instruments
var (
	transitionDurationHistogram metric.Float64Histogram
)

// initMetrics initializes all metric instruments
// Must be called after Init() has set up the global meter provider
func initMetrics() error {
	var err error

	if transitionsCounter, err = meter.Int64Counter(
		"muster_transitions_total",
		metric.WithDescription("Total number of transition runs"),
		metric.WithUnit("{run}"),
	); err != nil {
		return err
	}

	if storiesParsedCounter, err = meter.Int64Counter(
		"muster_stories_parsed_total",
		metric.WithDescription("Total number of stories parsed from planning documents"),
		metric.WithUnit("{story}"),
	); err != nil {
		return err
	}

	if specChangesCounter, err = meter.Int64Counter(
		"muster_spec_changes_total",
		metric.WithDescription("Total number of spec files classified as added, modified, or removed"),
		metric.WithUnit("{file}"),
	); err != nil {
		return err
	}

	if planMergesCounter, err = meter.Int64Counter(
		"muster_fixplan_merges_total",
		metric.WithDescription("Total number of fix plans merged with preserved completion state"),
		metric.WithUnit("{merge}"),
	); err != nil {
		return err
	}

	if warningsCounter, err = meter.Int64Counter(
		"muster_warnings_total",
		metric.WithDescription("Total number of recoverable warnings during transitions"),
		metric.WithUnit("{warning}"),
	); err != nil {
		return err
	}

	if transitionDurationHistogram, err = meter.Float64Histogram(
		"muster_transition_duration_seconds",
		metric.WithDescription("Duration of complete transition runs"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer used for transition spans
func Tracer() trace.Tracer {
	return otel.Tracer("muster")
}

// RecordTransition records a completed or failed transition run
func RecordTransition(ctx context.Context, outcome string, duration time.Duration) {
	if transitionsCounter != nil {
		transitionsCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(KeyOutcome, outcome)),
		)
	}
	if transitionDurationHistogram != nil {
		transitionDurationHistogram.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String(KeyOutcome, outcome)),
		)
	}
}

// RecordStoriesParsed records how many stories one run parsed
func RecordStoriesParsed(ctx context.Context, count int) {
	if storiesParsedCounter == nil {
		return
	}
	storiesParsedCounter.Add(ctx, int64(count))
}

// RecordSpecChange records one classified spec file change
func RecordSpecChange(ctx context.Context, changeType string) {
	if specChangesCounter == nil {
		return
	}
	specChangesCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyChangeType, changeType)),
	)
}

// RecordPlanMerge records that a previous fix plan's state was carried forward
func RecordPlanMerge(ctx context.Context) {
	if planMergesCounter == nil {
		return
	}
	planMergesCounter.Add(ctx, 1)
}

// RecordWarning records one recoverable warning
func RecordWarning(ctx context.Context, errorType string) {
	if warningsCounter == nil {
		return
	}
	warningsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyErrorType, errorType)),
	)
}
