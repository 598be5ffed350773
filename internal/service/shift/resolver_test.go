package shift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
)

type fakeShiftStore struct {
	standing    map[string]shift.ShiftDefinition
	adjustments map[string]shift.ShiftAdjustment
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{
		standing:    make(map[string]shift.ShiftDefinition),
		adjustments: make(map[string]shift.ShiftAdjustment),
	}
}

func adjKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeShiftStore) GetStandingShift(_ context.Context, employeeID string) (shift.ShiftDefinition, error) {
	def, ok := f.standing[employeeID]
	if !ok {
		return shift.ShiftDefinition{}, shift.ErrEmployeeShiftNotFound
	}
	return def, nil
}

func (f *fakeShiftStore) GetApprovedAdjustment(_ context.Context, employeeID string, date time.Time) (shift.ShiftAdjustment, error) {
	adj, ok := f.adjustments[adjKey(employeeID, date)]
	if !ok {
		return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
	}
	return adj, nil
}

func (f *fakeShiftStore) CreateShift(_ context.Context, def shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	return def, nil
}

func (f *fakeShiftStore) GetShiftByID(_ context.Context, _ string) (shift.ShiftDefinition, error) {
	return shift.ShiftDefinition{}, shift.ErrShiftNotFound
}

func (f *fakeShiftStore) ListShifts(_ context.Context, _ string) ([]shift.ShiftDefinition, error) {
	return nil, nil
}

func (f *fakeShiftStore) AssignStandingShift(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeShiftStore) CreateAdjustment(_ context.Context, adj shift.ShiftAdjustment) (shift.ShiftAdjustment, error) {
	return adj, nil
}

func (f *fakeShiftStore) SetAdjustmentStatus(_ context.Context, _ string, _ shift.ApprovalStatus, _ string) (shift.ShiftAdjustment, error) {
	return shift.ShiftAdjustment{}, shift.ErrAdjustmentNotFound
}

// Monday.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestResolveEffectiveShift_Standing(t *testing.T) {
	store := newFakeShiftStore()
	store.standing["emp-1"] = shift.ShiftDefinition{
		ID:        "shift-1",
		Name:      "Day",
		StartTime: shift.TimeOfDay{Hour: 8},
		EndTime:   shift.TimeOfDay{Hour: 17},
		Weekdays:  []int{1, 2, 3, 4, 5},
	}
	r := NewResolver(store)

	eff, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday.Add(10*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, monday, eff.Date)
	assert.Equal(t, monday.Add(8*time.Hour), eff.StartsAt)
	assert.Equal(t, monday.Add(17*time.Hour), eff.EndsAt)
	assert.False(t, eff.Adjusted)
	assert.Equal(t, 540, eff.ScheduledMinutes())
}

func TestResolveEffectiveShift_OvernightEndsNextDay(t *testing.T) {
	store := newFakeShiftStore()
	store.standing["emp-1"] = shift.ShiftDefinition{
		ID:        "shift-night",
		Name:      "Night",
		StartTime: shift.TimeOfDay{Hour: 22},
		EndTime:   shift.TimeOfDay{Hour: 6},
	}
	r := NewResolver(store)

	eff, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday)

	require.NoError(t, err)
	assert.Equal(t, monday.Add(22*time.Hour), eff.StartsAt)
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(6*time.Hour), eff.EndsAt)
	assert.True(t, eff.EndsAt.After(eff.StartsAt))
	// Resolving the same wall-clock shift for consecutive dates keeps
	// the bounds exactly 24h apart.
	next, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, next.StartsAt.Sub(eff.StartsAt))
	assert.Equal(t, 24*time.Hour, next.EndsAt.Sub(eff.EndsAt))
}

func TestResolveEffectiveShift_AdjustmentOverridesStanding(t *testing.T) {
	store := newFakeShiftStore()
	store.standing["emp-1"] = shift.ShiftDefinition{
		StartTime: shift.TimeOfDay{Hour: 8},
		EndTime:   shift.TimeOfDay{Hour: 17},
	}
	store.adjustments[adjKey("emp-1", monday)] = shift.ShiftAdjustment{
		EmployeeID: "emp-1",
		Date:       monday,
		Shift: shift.ShiftDefinition{
			StartTime: shift.TimeOfDay{Hour: 13},
			EndTime:   shift.TimeOfDay{Hour: 21},
		},
		Status: shift.ApprovalStatusApproved,
	}
	r := NewResolver(store)

	eff, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday)

	require.NoError(t, err)
	assert.True(t, eff.Adjusted)
	assert.Equal(t, monday.Add(13*time.Hour), eff.StartsAt)
	assert.Equal(t, monday.Add(21*time.Hour), eff.EndsAt)
}

func TestResolveEffectiveShift_NoAssignment(t *testing.T) {
	r := NewResolver(newFakeShiftStore())

	_, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday)

	assert.ErrorIs(t, err, shift.ErrEmployeeShiftNotFound)
}

func TestResolveEffectiveShift_WeekdayNotCovered(t *testing.T) {
	store := newFakeShiftStore()
	store.standing["emp-1"] = shift.ShiftDefinition{
		StartTime: shift.TimeOfDay{Hour: 8},
		EndTime:   shift.TimeOfDay{Hour: 17},
		Weekdays:  []int{1, 2, 3, 4, 5},
	}
	r := NewResolver(store)

	sunday := monday.AddDate(0, 0, -1)
	_, err := r.ResolveEffectiveShift(context.Background(), "emp-1", sunday)

	assert.ErrorIs(t, err, shift.ErrEmployeeShiftNotFound)
}

func TestResolveEffectiveShift_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  shift.ShiftDefinition
	}{
		{
			name: "start equals end",
			def: shift.ShiftDefinition{
				StartTime: shift.TimeOfDay{Hour: 8},
				EndTime:   shift.TimeOfDay{Hour: 8},
			},
		},
		{
			name: "hour out of range",
			def: shift.ShiftDefinition{
				StartTime: shift.TimeOfDay{Hour: 24},
				EndTime:   shift.TimeOfDay{Hour: 17},
			},
		},
		{
			name: "minute out of range",
			def: shift.ShiftDefinition{
				StartTime: shift.TimeOfDay{Hour: 8},
				EndTime:   shift.TimeOfDay{Hour: 17, Minute: 60},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeShiftStore()
			store.standing["emp-1"] = tt.def
			r := NewResolver(store)

			_, err := r.ResolveEffectiveShift(context.Background(), "emp-1", monday)

			assert.ErrorIs(t, err, shift.ErrInvalidShift)
		})
	}
}
