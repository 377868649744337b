package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/notify"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs

type CreateLeaveRequest struct {
	EmployeeID  string           `json:"employee_id" binding:"required"`
	LeaveType   model.LeaveType  `json:"leave_type" binding:"required"`
	FromDate    time.Time        `json:"from_date" binding:"required" time_format:"2006-01-02"`
	ToDate      time.Time        `json:"to_date" binding:"required" time_format:"2006-01-02"`
	PerDayHours *decimal.Decimal `json:"per_day_hours"`
	Note        string           `json:"note"`
}

// defaultPerDayHours is the working-day length assumed when a request does
// not specify one.
var defaultPerDayHours = decimal.NewFromInt(8)

// LeaveService runs the request state machine and, on approval, materializes
// per-day DRAFT LEAVE time entries across the employee's active memberships.
type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequest) (*model.LeaveRequest, error)
	// Approve reserves balance and materializes time entries in one
	// transaction. Idempotent on an already-APPROVED request; a REJECTED
	// request is a hard conflict.
	Approve(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.LeaveRequest, error)
	// Reject decides the request with no balance or time-entry side
	// effects. Rejecting an APPROVED request is a conflict; rejecting an
	// already-REJECTED one returns the existing record.
	Reject(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.LeaveRequest, error)

	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.LeaveRequest, int64, error)
	ListByStatus(ctx context.Context, status model.LeaveStatus, page, limit int) ([]model.LeaveRequest, int64, error)
}

type leaveService struct {
	leaveRepo    repository.LeaveRequestRepository
	employeeRepo repository.EmployeeRepository
	projectRepo  repository.ProjectRepository
	wbsRepo      repository.WBSRepository
	entryRepo    repository.TimeEntryRepository
	balances     BalanceService
	holidays     HolidayService
	allocations  AllocationService
	txm          repository.TransactionManager
	audit        *AuditRecorder
	events       notify.Publisher
}

func NewLeaveService(
	leaveRepo repository.LeaveRequestRepository,
	employeeRepo repository.EmployeeRepository,
	projectRepo repository.ProjectRepository,
	wbsRepo repository.WBSRepository,
	entryRepo repository.TimeEntryRepository,
	balances BalanceService,
	holidays HolidayService,
	allocations AllocationService,
	txm repository.TransactionManager,
	audit *AuditRecorder,
	events notify.Publisher,
) LeaveService {
	return &leaveService{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		projectRepo:  projectRepo,
		wbsRepo:      wbsRepo,
		entryRepo:    entryRepo,
		balances:     balances,
		holidays:     holidays,
		allocations:  allocations,
		txm:          txm,
		audit:        audit,
		events:       events,
	}
}

func (s *leaveService) Create(ctx context.Context, req CreateLeaveRequest) (*model.LeaveRequest, error) {
	if !req.LeaveType.Valid() {
		return nil, apperr.Invalid("unknown leave type %q", req.LeaveType)
	}
	if model.DateOnly(req.ToDate).Before(model.DateOnly(req.FromDate)) {
		return nil, apperr.Invalid("to date %s is before from date %s",
			req.ToDate.Format("2006-01-02"), req.FromDate.Format("2006-01-02"))
	}

	perDay := defaultPerDayHours
	if req.PerDayHours != nil {
		perDay = *req.PerDayHours
	}
	if perDay.LessThanOrEqual(decimal.Zero) || perDay.GreaterThan(decimal.NewFromInt(24)) {
		return nil, apperr.Invalid("per-day hours must be in (0, 24], got %s", perDay)
	}

	employee, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("employee %s not found", req.EmployeeID)
		}
		return nil, err
	}
	if !employee.Active {
		return nil, apperr.Conflict("employee %s is not active", employee.ID)
	}

	request := &model.LeaveRequest{
		EmployeeID:     employee.ID,
		BusinessUnitID: employee.BusinessUnitID,
		LeaveType:      req.LeaveType,
		FromDate:       model.DateOnly(req.FromDate),
		ToDate:         model.DateOnly(req.ToDate),
		PerDayHours:    perDay.Round(2),
		Status:         model.LeaveStatusRequested,
		Note:           req.Note,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.Create(txCtx, request); err != nil {
			return err
		}
		s.audit.Record(txCtx, nil, model.ActionCreateLeaveRequest, request.ID.String(), string(req.LeaveType), map[string]interface{}{
			"employee_id": employee.ID.String(),
			"from_date":   request.FromDate.Format("2006-01-02"),
			"to_date":     request.ToDate.Format("2006-01-02"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventLeaveRequested,
		EntityID:   request.ID.String(),
		EmployeeID: request.EmployeeID.String(),
		Status:     string(request.Status),
	})
	return request, nil
}

func (s *leaveService) Approve(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.LeaveRequest, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case model.LeaveStatusApproved:
		// Already decided; balance was reserved and entries materialized
		// by the approval that got here first.
		return request, nil
	case model.LeaveStatusRejected:
		return nil, apperr.Conflict("leave request %s is rejected and cannot be approved", request.ID)
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		days := request.Days()
		needed := request.PerDayHours.Mul(decimal.NewFromInt(int64(days)))
		key := repository.BalanceKey{
			EmployeeID:     request.EmployeeID,
			BusinessUnitID: request.BusinessUnitID,
			Year:           request.FromDate.Year(),
			LeaveType:      request.LeaveType,
		}
		if _, err := s.balances.Reserve(txCtx, key, needed); err != nil {
			return err
		}

		if err := s.materialize(txCtx, request); err != nil {
			return err
		}

		now := time.Now()
		request.Status = model.LeaveStatusApproved
		request.ApproverID = &approverID
		request.DecisionAt = &now
		request.DecisionNote = note
		if err := s.leaveRepo.Update(txCtx, request); err != nil {
			return err
		}
		s.audit.Record(txCtx, &approverID, model.ActionApproveLeave, request.ID.String(), string(request.LeaveType), map[string]interface{}{
			"employee_id":    request.EmployeeID.String(),
			"hours_reserved": needed.StringFixed(2),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventLeaveApproved,
		EntityID:   request.ID.String(),
		EmployeeID: request.EmployeeID.String(),
		Status:     string(request.Status),
	})
	return request, nil
}

// materialize walks every calendar day of the request and creates DRAFT
// LEAVE entries for each eligible membership. Runs inside the approval
// transaction so a failure on any day rolls back the reservation too.
func (s *leaveService) materialize(ctx context.Context, request *model.LeaveRequest) error {
	memberships, err := s.projectRepo.ListActiveMembersByEmployee(ctx, request.EmployeeID)
	if err != nil {
		return err
	}

	// One lookup (or lazy create) of the leave element per project.
	leaveElements := make(map[uuid.UUID]*model.WBSElement)

	from := model.DateOnly(request.FromDate)
	to := model.DateOnly(request.ToDate)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		var eligible []*model.ProjectMember
		for i := range memberships {
			member := &memberships[i]
			if !member.ActiveOn(day) {
				continue
			}
			skip, err := s.isProjectHoliday(ctx, member.Project, day)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			eligible = append(eligible, member)
		}
		if len(eligible) == 0 {
			continue
		}

		hours := request.PerDayHours.DivRound(decimal.NewFromInt(int64(len(eligible))), 2)
		for _, member := range eligible {
			element, err := s.leaveElementFor(ctx, member, leaveElements)
			if err != nil {
				return err
			}
			if _, err := s.allocations.EnsureCoverage(ctx, member.ID, element.ID, day); err != nil {
				return err
			}

			exists, err := s.entryRepo.LeaveEntryExists(ctx, request.EmployeeID, member.ProjectID, day)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			entry := &model.TimeEntry{
				ProjectID:    member.ProjectID,
				WBSElementID: element.ID,
				MemberID:     member.ID,
				EmployeeID:   request.EmployeeID,
				WorkDate:     day,
				Hours:        hours,
				EntryType:    model.EntryTypeLeave,
				Status:       model.EntryStatusDraft,
				Notes:        fmt.Sprintf("Auto-prefilled from leave request %s", request.ID),
			}
			if err := s.entryRepo.Create(ctx, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *leaveService) isProjectHoliday(ctx context.Context, project *model.Project, day time.Time) (bool, error) {
	if project == nil || project.HolidayCalendarID == nil {
		return false, nil
	}
	return s.holidays.IsHoliday(ctx, *project.HolidayCalendarID, day)
}

func (s *leaveService) leaveElementFor(ctx context.Context, member *model.ProjectMember, cache map[uuid.UUID]*model.WBSElement) (*model.WBSElement, error) {
	if element, ok := cache[member.ProjectID]; ok {
		return element, nil
	}

	project := member.Project
	if project == nil {
		loaded, err := s.projectRepo.GetByID(ctx, member.ProjectID.String())
		if err != nil {
			return nil, err
		}
		project = loaded
	}

	code := LeaveWBSCode(project)
	element, err := s.wbsRepo.GetElementByCode(ctx, project.ID, code)
	if err == nil {
		cache[project.ID] = element
		return element, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	element = &model.WBSElement{
		ProjectID: project.ID,
		Name:      "Leave",
		Code:      code,
		Category:  model.WBSCategoryLeave,
	}
	if err := s.wbsRepo.CreateElement(ctx, element); err != nil {
		return nil, err
	}
	cache[project.ID] = element
	return element, nil
}

func (s *leaveService) Reject(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.LeaveRequest, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case model.LeaveStatusRejected:
		return request, nil
	case model.LeaveStatusApproved:
		return nil, apperr.Conflict("leave request %s is approved and cannot be rejected", request.ID)
	}

	now := time.Now()
	request.Status = model.LeaveStatusRejected
	request.ApproverID = &approverID
	request.DecisionAt = &now
	request.DecisionNote = note

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaveRepo.Update(txCtx, request); err != nil {
			return err
		}
		s.audit.Record(txCtx, &approverID, model.ActionRejectLeave, request.ID.String(), string(request.LeaveType), nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventLeaveRejected,
		EntityID:   request.ID.String(),
		EmployeeID: request.EmployeeID.String(),
		Status:     string(request.Status),
	})
	return request, nil
}

func (s *leaveService) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	return s.getRequest(ctx, id)
}

func (s *leaveService) ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.LeaveRequest, int64, error) {
	return s.leaveRepo.ListByEmployee(ctx, employeeID, page, limit)
}

func (s *leaveService) ListByStatus(ctx context.Context, status model.LeaveStatus, page, limit int) ([]model.LeaveRequest, int64, error) {
	return s.leaveRepo.ListByStatus(ctx, status, page, limit)
}

func (s *leaveService) getRequest(ctx context.Context, id string) (*model.LeaveRequest, error) {
	request, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("leave request %s not found", id)
		}
		return nil, err
	}
	return request, nil
}
