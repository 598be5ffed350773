package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/notification"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
	shiftService "github.com/tempohr/tempo-backend-go/internal/service/shift"
)

// ScheduleServiceImpl manages shift templates and the adjustment
// approval flow on top of the shift store.
type ScheduleServiceImpl struct {
	store    shift.ShiftStore
	resolver *shiftService.Resolver
	sink     notification.Sink
}

func NewScheduleService(store shift.ShiftStore, resolver *shiftService.Resolver, sink notification.Sink) shift.ScheduleService {
	return &ScheduleServiceImpl{
		store:    store,
		resolver: resolver,
		sink:     sink,
	}
}

// CreateShift implements shift.ScheduleService.
func (s *ScheduleServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftDefinition, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftDefinition{}, err
	}

	created, err := s.store.CreateShift(ctx, req.Definition())
	if err != nil {
		return shift.ShiftDefinition{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return created, nil
}

// ListShifts implements shift.ScheduleService.
func (s *ScheduleServiceImpl) ListShifts(ctx context.Context, companyID string) ([]shift.ShiftDefinition, error) {
	shifts, err := s.store.ListShifts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// AssignShift implements shift.ScheduleService.
func (s *ScheduleServiceImpl) AssignShift(ctx context.Context, req shift.AssignShiftRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.store.GetShiftByID(ctx, req.ShiftID); err != nil {
		return err
	}

	if err := s.store.AssignStandingShift(ctx, req.EmployeeID, req.ShiftID); err != nil {
		return fmt.Errorf("failed to assign shift: %w", err)
	}

	return nil
}

// RequestAdjustment implements shift.ScheduleService.
func (s *ScheduleServiceImpl) RequestAdjustment(ctx context.Context, req shift.AdjustmentRequest) (shift.ShiftAdjustment, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftAdjustment{}, err
	}

	def, err := s.store.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return shift.ShiftAdjustment{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	adj := shift.ShiftAdjustment{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Shift:      def,
		Reason:     req.Reason,
		Status:     shift.ApprovalStatusPending,
	}

	created, err := s.store.CreateAdjustment(ctx, adj)
	if err != nil {
		return shift.ShiftAdjustment{}, err
	}

	return created, nil
}

// ReviewAdjustment implements shift.ScheduleService. The employee is
// told the outcome either way.
func (s *ScheduleServiceImpl) ReviewAdjustment(ctx context.Context, req shift.ReviewRequest) (shift.ShiftAdjustment, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftAdjustment{}, err
	}

	status := shift.ApprovalStatusRejected
	if req.Approve {
		status = shift.ApprovalStatusApproved
	}

	adj, err := s.store.SetAdjustmentStatus(ctx, req.ID, status, req.ReviewedBy)
	if err != nil {
		return shift.ShiftAdjustment{}, err
	}

	s.sink.Notify(ctx, adj.EmployeeID,
		fmt.Sprintf("Your shift adjustment for %s was %s", adj.Date.Format("2006-01-02"), status))

	return adj, nil
}

// EffectiveShift implements shift.ScheduleService.
func (s *ScheduleServiceImpl) EffectiveShift(ctx context.Context, employeeID string, date time.Time) (shift.EffectiveShift, error) {
	return s.resolver.ResolveEffectiveShift(ctx, employeeID, date)
}

// OvertimeServiceImpl manages the overtime window approval flow.
type OvertimeServiceImpl struct {
	store overtime.OvertimeStore
	sink  notification.Sink
}

func NewOvertimeService(store overtime.OvertimeStore, sink notification.Sink) overtime.OvertimeService {
	return &OvertimeServiceImpl{store: store, sink: sink}
}

// RequestWindow implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) RequestWindow(ctx context.Context, req overtime.WindowRequest) (overtime.OvertimeWindow, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeWindow{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	startHour, startMin, _ := validator.IsValidClockTime(req.StartTime)
	endHour, endMin, _ := validator.IsValidClockTime(req.EndTime)

	window := overtime.OvertimeWindow{
		EmployeeID: req.EmployeeID,
		Date:       date,
		StartTime:  shift.TimeOfDay{Hour: startHour, Minute: startMin},
		EndTime:    shift.TimeOfDay{Hour: endHour, Minute: endMin},
		DayOff:     req.DayOff,
		Reason:     req.Reason,
		Status:     shift.ApprovalStatusPending,
	}

	created, err := s.store.CreateWindow(ctx, window)
	if err != nil {
		return overtime.OvertimeWindow{}, fmt.Errorf("failed to create overtime window: %w", err)
	}

	return created, nil
}

// ReviewWindow implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ReviewWindow(ctx context.Context, req shift.ReviewRequest) (overtime.OvertimeWindow, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeWindow{}, err
	}

	status := shift.ApprovalStatusRejected
	if req.Approve {
		status = shift.ApprovalStatusApproved
	}

	window, err := s.store.SetWindowStatus(ctx, req.ID, status, req.ReviewedBy)
	if err != nil {
		return overtime.OvertimeWindow{}, err
	}

	s.sink.Notify(ctx, window.EmployeeID,
		fmt.Sprintf("Your overtime request for %s was %s", window.Date.Format("2006-01-02"), status))

	return window, nil
}

// ListWindows implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListWindows(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.OvertimeWindow, error) {
	windows, err := s.store.ListWindows(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime windows: %w", err)
	}
	return windows, nil
}
