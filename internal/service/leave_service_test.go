package service

import (
	"context"
	"testing"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/notify"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeaveRequestValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employee := f.seedEmployee(nil)

	tests := []struct {
		name string
		req  CreateLeaveRequest
		want func(error) bool
	}{
		{
			name: "unknown leave type",
			req: CreateLeaveRequest{
				EmployeeID: employee.ID.String(),
				LeaveType:  "SABBATICAL",
				FromDate:   date(2026, time.March, 2),
				ToDate:     date(2026, time.March, 2),
			},
			want: apperr.IsInvalid,
		},
		{
			name: "to before from",
			req: CreateLeaveRequest{
				EmployeeID: employee.ID.String(),
				LeaveType:  model.LeaveTypeAnnual,
				FromDate:   date(2026, time.March, 5),
				ToDate:     date(2026, time.March, 2),
			},
			want: apperr.IsInvalid,
		},
		{
			name: "unknown employee",
			req: CreateLeaveRequest{
				EmployeeID: uuid.NewString(),
				LeaveType:  model.LeaveTypeAnnual,
				FromDate:   date(2026, time.March, 2),
				ToDate:     date(2026, time.March, 2),
			},
			want: apperr.IsNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.leaves.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, tt.want(err), "unexpected error kind: %v", err)
		})
	}
}

func TestCreateLeaveRequestPerDayHoursBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employee := f.seedEmployee(nil)

	for _, raw := range []string{"0", "-1", "24.5"} {
		hours, _ := decimal.NewFromString(raw)
		_, err := f.leaves.Create(ctx, CreateLeaveRequest{
			EmployeeID:  employee.ID.String(),
			LeaveType:   model.LeaveTypeAnnual,
			FromDate:    date(2026, time.March, 2),
			ToDate:      date(2026, time.March, 2),
			PerDayHours: &hours,
		})
		assert.True(t, apperr.IsInvalid(err), "per-day hours %s should be invalid", raw)
	}
}

func TestCreateLeaveRequestInactiveEmployee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employee := f.seedEmployee(nil)
	employee.Active = false

	_, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeAnnual,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 2),
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateLeaveRequestDefaultsAndEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	employee := f.seedEmployee(nil)

	request, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeSick,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 4),
		Note:       "flu",
	})
	require.NoError(t, err)

	assert.Equal(t, model.LeaveStatusRequested, request.Status)
	assert.Equal(t, employee.BusinessUnitID, request.BusinessUnitID)
	assert.Equal(t, "8.00", request.PerDayHours.StringFixed(2))
	assert.Equal(t, 3, request.Days())

	require.Len(t, f.events.events, 1)
	assert.Equal(t, notify.EventLeaveRequested, f.events.events[0].Event)
	assert.Equal(t, request.ID.String(), f.events.events[0].EntityID)
}

// approvalFixture seeds one employee on two projects and a 3-day SICK
// request. Project B carries a holiday calendar with the middle day marked.
type approvalFixture struct {
	*fixture
	employee *model.Employee
	projectA *model.Project
	projectB *model.Project
	memberA  *model.ProjectMember
	memberB  *model.ProjectMember
	request  *model.LeaveRequest
	approver uuid.UUID
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	projectA := f.seedProject("Atlas", "ATL")
	projectB := f.seedProject("Borealis", "BOR")

	calendar := &model.HolidayCalendar{Name: "IN 2026", Region: "IN"}
	require.NoError(t, f.holidayRepo.CreateCalendar(ctx, calendar))
	require.NoError(t, f.holidayRepo.AddDay(ctx, &model.HolidayDay{
		CalendarID: calendar.ID,
		Date:       date(2026, time.March, 3),
		Name:       "Holi",
	}))
	projectB.HolidayCalendarID = &calendar.ID

	memberA := f.seedMember(projectA, employee)
	memberB := f.seedMember(projectB, employee)

	f.seedBalance(employee, 2026, model.LeaveTypeSick, "40")

	request, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeSick,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 4),
	})
	require.NoError(t, err)

	return &approvalFixture{
		fixture:  f,
		employee: employee,
		projectA: projectA,
		projectB: projectB,
		memberA:  memberA,
		memberB:  memberB,
		request:  request,
		approver: uuid.New(),
	}
}

func (af *approvalFixture) entriesFor(projectID uuid.UUID) map[string]model.TimeEntry {
	out := make(map[string]model.TimeEntry)
	for _, e := range af.entryRepo.entries {
		if e.ProjectID == projectID {
			out[e.WorkDate.Format("2006-01-02")] = *e
		}
	}
	return out
}

func TestApproveLeaveMaterializesEntriesAndReservesBalance(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	approved, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "ok")
	require.NoError(t, err)

	assert.Equal(t, model.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, af.approver, *approved.ApproverID)
	assert.NotNil(t, approved.DecisionAt)
	assert.Equal(t, "ok", approved.DecisionNote)

	// 3 days x 8h reserved in hours, regardless of how the day splits.
	balance, err := af.balanceRepo.Get(ctx, repository.BalanceKey{
		EmployeeID:     af.employee.ID,
		BusinessUnitID: af.employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeSick,
	})
	require.NoError(t, err)
	assert.Equal(t, "24.00", balance.Consumed.StringFixed(2))
	assert.Equal(t, "16.00", balance.Remaining().StringFixed(2))

	// Project A works all three days. March 3 is a holiday only on
	// project B, so A absorbs the full day alone.
	entriesA := af.entriesFor(af.projectA.ID)
	require.Len(t, entriesA, 3)
	assert.Equal(t, "4.00", entriesA["2026-03-02"].Hours.StringFixed(2))
	assert.Equal(t, "8.00", entriesA["2026-03-03"].Hours.StringFixed(2))
	assert.Equal(t, "4.00", entriesA["2026-03-04"].Hours.StringFixed(2))

	entriesB := af.entriesFor(af.projectB.ID)
	require.Len(t, entriesB, 2)
	assert.NotContains(t, entriesB, "2026-03-03")
	assert.Equal(t, "4.00", entriesB["2026-03-02"].Hours.StringFixed(2))
	assert.Equal(t, "4.00", entriesB["2026-03-04"].Hours.StringFixed(2))

	for _, e := range af.entryRepo.entries {
		assert.Equal(t, model.EntryTypeLeave, e.EntryType)
		assert.Equal(t, model.EntryStatusDraft, e.Status)
	}
}

func TestApproveLeaveCreatesLeaveElementsAndCoverage(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)

	elementA, err := af.wbsRepo.GetElementByCode(ctx, af.projectA.ID, "LV-ATL")
	require.NoError(t, err)
	assert.Equal(t, model.WBSCategoryLeave, elementA.Category)

	elementB, err := af.wbsRepo.GetElementByCode(ctx, af.projectB.ID, "LV-BOR")
	require.NoError(t, err)

	// Every materialized entry sits on a covering allocation.
	for _, day := range []time.Time{
		date(2026, time.March, 2), date(2026, time.March, 3), date(2026, time.March, 4),
	} {
		covered, err := af.allocations.IsCovered(ctx, af.memberA.ID, elementA.ID, day)
		require.NoError(t, err)
		assert.True(t, covered, "member A should be covered on %s", day.Format("2006-01-02"))
	}
	covered, err := af.allocations.IsCovered(ctx, af.memberB.ID, elementB.ID, date(2026, time.March, 2))
	require.NoError(t, err)
	assert.True(t, covered)
}

func TestApproveLeaveIsIdempotent(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)
	entriesBefore := len(af.entryRepo.entries)

	again, err := af.leaves.Approve(ctx, af.request.ID.String(), uuid.New(), "second look")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusApproved, again.Status)
	assert.Equal(t, af.approver, *again.ApproverID, "first decision stands")

	assert.Len(t, af.entryRepo.entries, entriesBefore)
	balance, err := af.balanceRepo.Get(ctx, repository.BalanceKey{
		EmployeeID:     af.employee.ID,
		BusinessUnitID: af.employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeSick,
	})
	require.NoError(t, err)
	assert.Equal(t, "24.00", balance.Consumed.StringFixed(2), "no double reservation")
}

func TestApproveRejectedLeaveIsConflict(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	_, err := af.leaves.Reject(ctx, af.request.ID.String(), af.approver, "no")
	require.NoError(t, err)

	_, err = af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	assert.True(t, apperr.IsConflict(err))
}

func TestApproveLeaveInsufficientBalance(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	key := repository.BalanceKey{
		EmployeeID:     af.employee.ID,
		BusinessUnitID: af.employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeSick,
	}
	row, err := af.balanceRepo.Get(ctx, key)
	require.NoError(t, err)
	row.Allocated = decimal.NewFromInt(8) // needs 24
	require.NoError(t, af.balanceRepo.Save(ctx, row))

	_, err = af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	assert.True(t, apperr.IsConflict(err))

	after, err := af.balanceRepo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "0.00", after.Consumed.StringFixed(2), "failed reserve must not consume")
	assert.Empty(t, af.entryRepo.entries, "no entries on a failed approval")

	request, err := af.leaves.GetByID(ctx, af.request.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusRequested, request.Status)
}

func TestApproveLeaveSkipsExistingLeaveEntries(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	// A leave entry for project A on day one already exists, e.g. logged
	// by hand before the request was decided.
	leaveElement := &model.WBSElement{
		ProjectID: af.projectA.ID,
		Name:      "Leave",
		Code:      "LV-ATL",
		Category:  model.WBSCategoryLeave,
	}
	require.NoError(t, af.wbsRepo.CreateElement(ctx, leaveElement))
	require.NoError(t, af.entryRepo.Create(ctx, &model.TimeEntry{
		ProjectID:    af.projectA.ID,
		WBSElementID: leaveElement.ID,
		MemberID:     af.memberA.ID,
		EmployeeID:   af.employee.ID,
		WorkDate:     date(2026, time.March, 2),
		Hours:        decimal.NewFromInt(8),
		EntryType:    model.EntryTypeLeave,
		Status:       model.EntryStatusSubmitted,
	}))

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)

	entriesA := af.entriesFor(af.projectA.ID)
	require.Len(t, entriesA, 3, "one pre-existing plus two materialized")
	assert.Equal(t, "8.00", entriesA["2026-03-02"].Hours.StringFixed(2), "pre-existing entry untouched")
	assert.Equal(t, model.EntryStatusSubmitted, entriesA["2026-03-02"].Status)
}

func TestApproveLeaveRespectsMembershipWindow(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	// Membership on project B ends mid-request.
	end := date(2026, time.March, 2)
	af.memberB.EndDate = &end

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)

	entriesB := af.entriesFor(af.projectB.ID)
	require.Len(t, entriesB, 1)
	assert.Contains(t, entriesB, "2026-03-02")

	// After B drops out, A takes each day whole.
	entriesA := af.entriesFor(af.projectA.ID)
	assert.Equal(t, "4.00", entriesA["2026-03-02"].Hours.StringFixed(2))
	assert.Equal(t, "8.00", entriesA["2026-03-03"].Hours.StringFixed(2))
	assert.Equal(t, "8.00", entriesA["2026-03-04"].Hours.StringFixed(2))
}

func TestApproveLeaveSplitsAcrossThreeProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	for _, code := range []string{"ONE", "TWO", "TRI"} {
		project := f.seedProject(code, code)
		f.seedMember(project, employee)
	}
	f.seedBalance(employee, 2026, model.LeaveTypeAnnual, "8")

	request, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeAnnual,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 2),
	})
	require.NoError(t, err)

	_, err = f.leaves.Approve(ctx, request.ID.String(), uuid.New(), "")
	require.NoError(t, err)

	require.Len(t, f.entryRepo.entries, 3)
	for _, e := range f.entryRepo.entries {
		assert.Equal(t, "2.67", e.Hours.StringFixed(2), "8 / 3 rounds half up at 2 places")
	}
}

func TestApproveLeaveSingleMembershipEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	project := f.seedProject("Atlas", "ATL")
	f.seedMember(project, employee)
	f.seedBalance(employee, 2026, model.LeaveTypeSick, "40")

	request, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeSick,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 4),
	})
	require.NoError(t, err)

	approved, err := f.leaves.Approve(ctx, request.ID.String(), uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusApproved, approved.Status)

	require.Len(t, f.entryRepo.entries, 3)
	element, err := f.wbsRepo.GetElementByCode(ctx, project.ID, "LV-ATL")
	require.NoError(t, err)
	for _, e := range f.entryRepo.entries {
		assert.Equal(t, "8.00", e.Hours.StringFixed(2))
		assert.Equal(t, element.ID, e.WBSElementID)
		assert.Equal(t, model.EntryTypeLeave, e.EntryType)
		assert.Equal(t, model.EntryStatusDraft, e.Status)
		assert.Contains(t, e.Notes, request.ID.String())
	}

	balance, err := f.balanceRepo.Get(ctx, repository.BalanceKey{
		EmployeeID:     employee.ID,
		BusinessUnitID: employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeSick,
	})
	require.NoError(t, err)
	assert.Equal(t, "24.00", balance.Consumed.StringFixed(2))
}

func TestApproveLeaveWithNoMemberships(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	employee := f.seedEmployee(nil)
	f.seedBalance(employee, 2026, model.LeaveTypeAnnual, "8")

	request, err := f.leaves.Create(ctx, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		LeaveType:  model.LeaveTypeAnnual,
		FromDate:   date(2026, time.March, 2),
		ToDate:     date(2026, time.March, 2),
	})
	require.NoError(t, err)

	// Balance is still reserved; there is just nothing to materialize.
	approved, err := f.leaves.Approve(ctx, request.ID.String(), uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusApproved, approved.Status)
	assert.Empty(t, f.entryRepo.entries)

	balance, err := f.balanceRepo.Get(ctx, repository.BalanceKey{
		EmployeeID:     employee.ID,
		BusinessUnitID: employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeAnnual,
	})
	require.NoError(t, err)
	assert.Equal(t, "8.00", balance.Consumed.StringFixed(2))
}

func TestRejectLeave(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	rejected, err := af.leaves.Reject(ctx, af.request.ID.String(), af.approver, "short staffed")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusRejected, rejected.Status)
	assert.Equal(t, "short staffed", rejected.DecisionNote)

	// No side effects on the ledger or the timesheet.
	balance, err := af.balanceRepo.Get(ctx, repository.BalanceKey{
		EmployeeID:     af.employee.ID,
		BusinessUnitID: af.employee.BusinessUnitID,
		Year:           2026,
		LeaveType:      model.LeaveTypeSick,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.Consumed.StringFixed(2))
	assert.Empty(t, af.entryRepo.entries)

	// Rejecting again is a no-op, rejecting an approved request is not.
	again, err := af.leaves.Reject(ctx, af.request.ID.String(), uuid.New(), "other reason")
	require.NoError(t, err)
	assert.Equal(t, "short staffed", again.DecisionNote)
}

func TestRejectApprovedLeaveIsConflict(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)

	_, err = af.leaves.Reject(ctx, af.request.ID.String(), af.approver, "changed my mind")
	assert.True(t, apperr.IsConflict(err))
}

func TestLeaveEventsOnDecision(t *testing.T) {
	af := newApprovalFixture(t)
	ctx := context.Background()
	af.events.events = nil

	_, err := af.leaves.Approve(ctx, af.request.ID.String(), af.approver, "")
	require.NoError(t, err)

	require.Len(t, af.events.events, 1)
	assert.Equal(t, notify.EventLeaveApproved, af.events.events[0].Event)
	assert.Equal(t, string(model.LeaveStatusApproved), af.events.events[0].Status)
}
