// Package services holds the ledger's business rules: the category registry,
// the ledger itself, EMI tracking, recurring templates, aggregations and the
// goal advisor, plus the Tracker facade that persists after every change.
//
// This file implements the strategy used to step recurring templates forward.
// Each repetition interval owns the calendar arithmetic for its next occurrence.
package services

import (
	"fmt"

	"fintrack/internal/core"
)

// IntervalStepper computes the occurrence that follows last. start is the
// template's start date, which anchors the day of month for monthly steps.
type IntervalStepper interface {
	Next(last, start core.Date) core.Date
}

// WeeklyStepper advances by seven days.
type WeeklyStepper struct{}

func (WeeklyStepper) Next(last, _ core.Date) core.Date {
	return last.AddDays(7)
}

// MonthlyStepper advances one calendar month, landing on the start date's day
// or the last day of the month when that day does not exist.
type MonthlyStepper struct{}

func (MonthlyStepper) Next(last, start core.Date) core.Date {
	anchor := last.Day()
	if !start.IsEmpty() {
		anchor = start.Day()
	}
	return last.AddMonthsClamped(1, anchor)
}

// intervalSteppers maps repetition intervals to their steppers.
var intervalSteppers = map[core.RepetitionInterval]IntervalStepper{
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
}

// GetIntervalStepper returns the stepper for an interval.
// Returns an error if the interval is not supported.
func GetIntervalStepper(interval core.RepetitionInterval) (IntervalStepper, error) {
	s, ok := intervalSteppers[interval]
	if !ok {
		return nil, fmt.Errorf("unknown repetition interval: %s", interval)
	}
	return s, nil
}

// RegisterIntervalStepper adds or replaces the stepper for an interval.
func RegisterIntervalStepper(interval core.RepetitionInterval, s IntervalStepper) {
	intervalSteppers[interval] = s
}
