package service

import (
	"context"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/repository"

	"github.com/google/uuid"
)

// UnpaidLeaveSlice is one approved UNPAID request clipped to the queried
// month. Payroll multiplies the day span into its loss-of-pay deduction.
type UnpaidLeaveSlice struct {
	LeaveRequestID uuid.UUID         `json:"leave_request_id"`
	LeaveType      model.LeaveType   `json:"leave_type"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Days           int               `json:"days"`
	Status         model.LeaveStatus `json:"status"`
}

// PayrollService is the read-only boundary payroll consumes. Salary math
// stays on payroll's side; this only reports approved unpaid leave.
type PayrollService interface {
	UnpaidLeaveForMonth(ctx context.Context, employeeID uuid.UUID, year int, month time.Month) ([]UnpaidLeaveSlice, error)
}

type payrollService struct {
	leaveRepo repository.LeaveRequestRepository
}

func NewPayrollService(leaveRepo repository.LeaveRequestRepository) PayrollService {
	return &payrollService{leaveRepo: leaveRepo}
}

func (s *payrollService) UnpaidLeaveForMonth(ctx context.Context, employeeID uuid.UUID, year int, month time.Month) ([]UnpaidLeaveSlice, error) {
	if year < 1900 || year > 9999 {
		return nil, apperr.Invalid("year %d out of range", year)
	}
	if month < time.January || month > time.December {
		return nil, apperr.Invalid("month %d out of range", month)
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	requests, err := s.leaveRepo.ListApprovedOverlapping(ctx, employeeID, model.LeaveTypeUnpaid, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	slices := make([]UnpaidLeaveSlice, 0, len(requests))
	for _, request := range requests {
		start := model.DateOnly(request.FromDate)
		if start.Before(monthStart) {
			start = monthStart
		}
		end := model.DateOnly(request.ToDate)
		if end.After(monthEnd) {
			end = monthEnd
		}
		slices = append(slices, UnpaidLeaveSlice{
			LeaveRequestID: request.ID,
			LeaveType:      request.LeaveType,
			StartDate:      start,
			EndDate:        end,
			Days:           int(end.Sub(start).Hours()/24) + 1,
			Status:         request.Status,
		})
	}
	return slices, nil
}
