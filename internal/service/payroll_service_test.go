package service

import (
	"context"
	"testing"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeaveRequest(f *fixture, employeeID uuid.UUID, leaveType model.LeaveType, status model.LeaveStatus, from, to time.Time) *model.LeaveRequest {
	request := &model.LeaveRequest{
		EmployeeID:     employeeID,
		BusinessUnitID: uuid.New(),
		LeaveType:      leaveType,
		FromDate:       from,
		ToDate:         to,
		Status:         status,
	}
	_ = f.leaveRepo.Create(context.Background(), request)
	return request
}

func TestUnpaidLeaveForMonthClipsToMonth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employeeID := uuid.New()

	// Straddles the January/February boundary.
	request := seedLeaveRequest(f, employeeID, model.LeaveTypeUnpaid, model.LeaveStatusApproved,
		date(2026, time.January, 28), date(2026, time.February, 3))

	slices, err := f.payroll.UnpaidLeaveForMonth(ctx, employeeID, 2026, time.February)
	require.NoError(t, err)
	require.Len(t, slices, 1)

	slice := slices[0]
	assert.Equal(t, request.ID, slice.LeaveRequestID)
	assert.True(t, model.SameDay(slice.StartDate, date(2026, time.February, 1)))
	assert.True(t, model.SameDay(slice.EndDate, date(2026, time.February, 3)))
	assert.Equal(t, 3, slice.Days)
	assert.Equal(t, model.LeaveStatusApproved, slice.Status)

	// The same request reported for January clips the other side.
	slices, err = f.payroll.UnpaidLeaveForMonth(ctx, employeeID, 2026, time.January)
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.True(t, model.SameDay(slices[0].StartDate, date(2026, time.January, 28)))
	assert.True(t, model.SameDay(slices[0].EndDate, date(2026, time.January, 31)))
	assert.Equal(t, 4, slices[0].Days)
}

func TestUnpaidLeaveForMonthFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employeeID := uuid.New()

	// Only APPROVED UNPAID requests of this employee count.
	seedLeaveRequest(f, employeeID, model.LeaveTypeUnpaid, model.LeaveStatusRequested,
		date(2026, time.February, 9), date(2026, time.February, 10))
	seedLeaveRequest(f, employeeID, model.LeaveTypeUnpaid, model.LeaveStatusRejected,
		date(2026, time.February, 11), date(2026, time.February, 12))
	seedLeaveRequest(f, employeeID, model.LeaveTypeAnnual, model.LeaveStatusApproved,
		date(2026, time.February, 16), date(2026, time.February, 17))
	seedLeaveRequest(f, uuid.New(), model.LeaveTypeUnpaid, model.LeaveStatusApproved,
		date(2026, time.February, 16), date(2026, time.February, 17))
	seedLeaveRequest(f, employeeID, model.LeaveTypeUnpaid, model.LeaveStatusApproved,
		date(2026, time.March, 2), date(2026, time.March, 3))

	slices, err := f.payroll.UnpaidLeaveForMonth(ctx, employeeID, 2026, time.February)
	require.NoError(t, err)
	assert.Empty(t, slices)
}

func TestUnpaidLeaveForMonthFullyInside(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employeeID := uuid.New()

	seedLeaveRequest(f, employeeID, model.LeaveTypeUnpaid, model.LeaveStatusApproved,
		date(2026, time.February, 9), date(2026, time.February, 13))

	slices, err := f.payroll.UnpaidLeaveForMonth(ctx, employeeID, 2026, time.February)
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Equal(t, 5, slices[0].Days)
}

func TestUnpaidLeaveForMonthValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.payroll.UnpaidLeaveForMonth(ctx, uuid.New(), 188, time.February)
	assert.True(t, apperr.IsInvalid(err))

	_, err = f.payroll.UnpaidLeaveForMonth(ctx, uuid.New(), 2026, time.Month(13))
	assert.True(t, apperr.IsInvalid(err))
}
