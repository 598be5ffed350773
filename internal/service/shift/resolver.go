package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

// Resolver produces the effective shift for an employee-date: the
// approved ad-hoc adjustment when one exists, otherwise the standing
// assignment, normalized to absolute instants.
type Resolver struct {
	store shift.ShiftStore
}

func NewResolver(store shift.ShiftStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveEffectiveShift resolves the shift governing (employeeID,
// date). Pure over its inputs plus the store reads.
func (r *Resolver) ResolveEffectiveShift(ctx context.Context, employeeID string, date time.Time) (shift.EffectiveShift, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var def shift.ShiftDefinition
	adjusted := false

	adj, err := r.store.GetApprovedAdjustment(ctx, employeeID, day)
	switch {
	case err == nil:
		def = adj.Shift
		adjusted = true
	case errors.Is(err, shift.ErrAdjustmentNotFound):
		def, err = r.store.GetStandingShift(ctx, employeeID)
		if err != nil {
			if errors.Is(err, shift.ErrEmployeeShiftNotFound) {
				return shift.EffectiveShift{}, shift.ErrEmployeeShiftNotFound
			}
			return shift.EffectiveShift{}, fmt.Errorf("failed to get standing shift: %w", err)
		}
		// Adjustments target a date explicitly; standing shifts only
		// govern the weekdays they name.
		if !def.AppliesOn(day.Weekday()) {
			return shift.EffectiveShift{}, shift.ErrEmployeeShiftNotFound
		}
	default:
		return shift.EffectiveShift{}, fmt.Errorf("failed to get approved adjustment: %w", err)
	}

	if !def.StartTime.Valid() || !def.EndTime.Valid() {
		return shift.EffectiveShift{}, shift.ErrInvalidShift
	}
	// start == end would anchor to a 24h shift, which is invalid input.
	if def.StartTime == def.EndTime {
		return shift.EffectiveShift{}, shift.ErrInvalidShift
	}

	startsAt := def.StartTime.At(day)
	endsAt := def.EndTime.At(day)
	if !endsAt.After(startsAt) {
		// Overnight rule: checkout lands on the following calendar day.
		endsAt = endsAt.AddDate(0, 0, 1)
	}

	return shift.EffectiveShift{
		Shift:      def,
		Date:       day,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		Adjusted:   adjusted,
		EmployeeID: employeeID,
	}, nil
}
