// Package invariants reports broken game invariants as span events.
package invariants

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// InvariantFlagBudgetBalanced requires flags remaining plus flagged cells to equal the mine count.
	InvariantFlagBudgetBalanced = "flag_budget_balanced"
	// InvariantRevealedCountConsistent requires the session counter to equal the number of revealed cells.
	InvariantRevealedCountConsistent = "revealed_count_consistent"
	// InvariantStatusTransitionLegal requires status changes to follow the game lifecycle.
	InvariantStatusTransitionLegal = "status_transition_legal"
	// InvariantRevealDeltaBounded requires a reveal delta to hold distinct cells and never more than the grid.
	InvariantRevealDeltaBounded = "reveal_delta_bounded"
)

const (
	// SeverityWarn is used for non-fatal invariant violations.
	SeverityWarn = "warn"
	// SeverityError is used for fatal invariant violations.
	SeverityError = "error"
)

var invariantChecksEnabled atomic.Bool

func init() {
	invariantChecksEnabled.Store(true)
}

// ViolationDetails captures invariant violation context for telemetry events.
type ViolationDetails struct {
	WhatInvariant string
	WhereDetected string
	WhyViolated   string
	Additional    map[string]string
}

// SetEnabled globally enables or disables invariant checks.
func SetEnabled(enabled bool) {
	invariantChecksEnabled.Store(enabled)
}

// Enabled reports whether invariant checks are currently enabled.
func Enabled() bool {
	return invariantChecksEnabled.Load()
}

// InvariantViolation emits an invariant.violation event on the active span.
// Without an active span a short synthetic span carries the event.
func InvariantViolation(
	ctx context.Context,
	invariantName string,
	severity string,
	details ViolationDetails,
) {
	if !Enabled() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	invariantName = strings.TrimSpace(invariantName)
	if invariantName == "" {
		invariantName = "unknown_invariant"
	}

	attrs := []attribute.KeyValue{
		attribute.String("invariant_name", invariantName),
		attribute.String("severity", normalizeSeverity(severity)),
		attribute.String("what_invariant", strings.TrimSpace(details.WhatInvariant)),
		attribute.String("where_detected", strings.TrimSpace(details.WhereDetected)),
		attribute.String("why_violated", strings.TrimSpace(details.WhyViolated)),
	}
	if len(details.Additional) > 0 {
		keys := make([]string, 0, len(details.Additional))
		for key := range details.Additional {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := strings.TrimSpace(details.Additional[key])
			if value == "" {
				continue
			}
			attrs = append(attrs, attribute.String("context."+key, value))
		}
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.AddEvent("invariant.violation", trace.WithAttributes(attrs...))
		return
	}

	_, temporary := otel.Tracer("mines/invariants").Start(ctx, "invariant.violation")
	defer temporary.End()
	temporary.AddEvent("invariant.violation", trace.WithAttributes(attrs...))
}

// CheckFlagBudgetBalanced validates flag_budget_balanced.
func CheckFlagBudgetBalanced(ctx context.Context, whereDetected string, flagsRemaining, flagged, mines int) bool {
	if flagsRemaining >= 0 && flagsRemaining+flagged == mines {
		return true
	}
	InvariantViolation(ctx, InvariantFlagBudgetBalanced, SeverityError, ViolationDetails{
		WhatInvariant: "flags remaining plus flagged cells equals mine count",
		WhereDetected: whereDetected,
		WhyViolated:   fmt.Sprintf("flags_remaining=%d flagged=%d mines=%d", flagsRemaining, flagged, mines),
		Additional: map[string]string{
			"flags_remaining": strconv.Itoa(flagsRemaining),
			"flagged":         strconv.Itoa(flagged),
			"mines":           strconv.Itoa(mines),
		},
	})
	return false
}

// CheckRevealedCountConsistent validates revealed_count_consistent.
func CheckRevealedCountConsistent(ctx context.Context, whereDetected string, counted, actual int) bool {
	if counted == actual {
		return true
	}
	InvariantViolation(ctx, InvariantRevealedCountConsistent, SeverityError, ViolationDetails{
		WhatInvariant: "session revealed counter matches revealed cells",
		WhereDetected: whereDetected,
		WhyViolated:   fmt.Sprintf("counter=%d revealed_cells=%d", counted, actual),
		Additional: map[string]string{
			"counter":        strconv.Itoa(counted),
			"revealed_cells": strconv.Itoa(actual),
		},
	})
	return false
}

// CheckStatusTransitionLegal validates status_transition_legal.
func CheckStatusTransitionLegal(ctx context.Context, whereDetected, fromStatus, toStatus string, legal bool) bool {
	if legal {
		return true
	}
	InvariantViolation(ctx, InvariantStatusTransitionLegal, SeverityError, ViolationDetails{
		WhatInvariant: "game status transition is legal",
		WhereDetected: whereDetected,
		WhyViolated:   fmt.Sprintf("illegal transition from=%s to=%s", fromStatus, toStatus),
		Additional: map[string]string{
			"from_status": strings.TrimSpace(fromStatus),
			"to_status":   strings.TrimSpace(toStatus),
		},
	})
	return false
}

// CheckRevealDeltaBounded validates reveal_delta_bounded.
func CheckRevealDeltaBounded(ctx context.Context, whereDetected string, deltaSize, distinct, gridSize int) bool {
	if deltaSize == distinct && deltaSize <= gridSize {
		return true
	}
	severity := SeverityError
	if deltaSize == distinct {
		severity = SeverityWarn
	}
	InvariantViolation(ctx, InvariantRevealDeltaBounded, severity, ViolationDetails{
		WhatInvariant: "reveal delta lists distinct cells within grid size",
		WhereDetected: whereDetected,
		WhyViolated:   fmt.Sprintf("delta=%d distinct=%d grid=%d", deltaSize, distinct, gridSize),
		Additional: map[string]string{
			"delta":    strconv.Itoa(deltaSize),
			"distinct": strconv.Itoa(distinct),
			"grid":     strconv.Itoa(gridSize),
		},
	})
	return false
}

func normalizeSeverity(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case SeverityWarn:
		return SeverityWarn
	default:
		return SeverityError
	}
}
