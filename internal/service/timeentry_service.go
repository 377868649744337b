package service

import (
	"context"
	"errors"
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

type CreateTimeEntryRequest struct {
	ProjectID    string          `json:"project_id" binding:"required"`
	WBSElementID string          `json:"wbs_element_id" binding:"required"`
	MemberID     string          `json:"member_id" binding:"required"`
	EmployeeID   string          `json:"employee_id" binding:"required"`
	WorkDate     time.Time       `json:"work_date" binding:"required" time_format:"2006-01-02"`
	Hours        decimal.Decimal `json:"hours" binding:"required"`
	EntryType    model.EntryType `json:"entry_type"`
	Notes        string          `json:"notes"`
}

// TimeEntryService runs the per-entry state machine:
// DRAFT → SUBMITTED → APPROVED | REJECTED.
// Entries materialized from approved leave enter here as DRAFT and follow
// the same transitions as manually created ones.
type TimeEntryService interface {
	CreateDraft(ctx context.Context, req CreateTimeEntryRequest) (*model.TimeEntry, error)
	// Submit re-validates allocation coverage, which may have lapsed
	// since the draft was created.
	Submit(ctx context.Context, id string) (*model.TimeEntry, error)
	// Approve fails only on a REJECTED entry; a rejected entry cannot be
	// resurrected. Single-actor, immediate.
	Approve(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.TimeEntry, error)
	Reject(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.TimeEntry, error)

	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error)
	ListApprovals(ctx context.Context, entryID uuid.UUID) ([]model.TimeEntryApproval, error)
}

type timeEntryService struct {
	entryRepo   repository.TimeEntryRepository
	projectRepo repository.ProjectRepository
	wbsRepo     repository.WBSRepository
	allocations AllocationService
	txm         repository.TransactionManager
	audit       *AuditRecorder
	events      notify.Publisher
}

func NewTimeEntryService(
	entryRepo repository.TimeEntryRepository,
	projectRepo repository.ProjectRepository,
	wbsRepo repository.WBSRepository,
	allocations AllocationService,
	txm repository.TransactionManager,
	audit *AuditRecorder,
	events notify.Publisher,
) TimeEntryService {
	return &timeEntryService{
		entryRepo:   entryRepo,
		projectRepo: projectRepo,
		wbsRepo:     wbsRepo,
		allocations: allocations,
		txm:         txm,
		audit:       audit,
		events:      events,
	}
}

func (s *timeEntryService) CreateDraft(ctx context.Context, req CreateTimeEntryRequest) (*model.TimeEntry, error) {
	entryType := req.EntryType
	if entryType == "" {
		entryType = model.EntryTypeWork
	}
	if !entryType.Valid() {
		return nil, apperr.Invalid("unknown entry type %q", req.EntryType)
	}
	if req.Hours.LessThanOrEqual(decimal.Zero) || req.Hours.GreaterThan(decimal.NewFromInt(24)) {
		return nil, apperr.Invalid("hours must be in (0, 24], got %s", req.Hours)
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, apperr.Invalid("invalid employee id: %v", err)
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project %s not found", req.ProjectID)
		}
		return nil, err
	}

	member, err := s.projectRepo.GetMember(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project member %s not found", req.MemberID)
		}
		return nil, err
	}

	element, err := s.wbsRepo.GetElement(ctx, req.WBSElementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wbs element %s not found", req.WBSElementID)
		}
		return nil, err
	}

	if member.ProjectID != project.ID {
		return nil, apperr.Conflict("member %s does not belong to project %s", member.ID, project.ID)
	}
	if element.ProjectID != project.ID {
		return nil, apperr.Conflict("wbs element %s does not belong to project %s", element.Code, project.ID)
	}
	if member.EmployeeID != employeeID {
		return nil, apperr.Conflict("member %s is not employee %s", member.ID, employeeID)
	}

	covered, err := s.allocations.IsCovered(ctx, member.ID, element.ID, req.WorkDate)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, apperr.Conflict(
			"no active allocation covers %s for member %s on wbs element %s",
			req.WorkDate.Format("2006-01-02"), member.ID, element.Code,
		)
	}

	if entryType == model.EntryTypeLeave {
		exists, err := s.entryRepo.LeaveEntryExists(ctx, employeeID, project.ID, req.WorkDate)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.Conflict(
				"a leave entry already exists for employee %s in project %s on %s",
				employeeID, project.ID, req.WorkDate.Format("2006-01-02"),
			)
		}
	}

	entry := &model.TimeEntry{
		ProjectID:    project.ID,
		WBSElementID: element.ID,
		MemberID:     member.ID,
		EmployeeID:   employeeID,
		WorkDate:     model.DateOnly(req.WorkDate),
		Hours:        req.Hours.Round(2),
		EntryType:    entryType,
		Status:       model.EntryStatusDraft,
		Notes:        req.Notes,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Create(txCtx, entry); err != nil {
			return err
		}
		s.audit.Record(txCtx, nil, model.ActionCreateTimeEntry, entry.ID.String(), string(entryType), map[string]interface{}{
			"employee_id": employeeID.String(),
			"project_id":  project.ID.String(),
			"work_date":   entry.WorkDate.Format("2006-01-02"),
			"hours":       entry.Hours.StringFixed(2),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) Submit(ctx context.Context, id string) (*model.TimeEntry, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry.Status != model.EntryStatusDraft {
		return nil, apperr.Conflict("time entry %s is %s, only DRAFT entries can be submitted", entry.ID, entry.Status)
	}

	covered, err := s.allocations.IsCovered(ctx, entry.MemberID, entry.WBSElementID, entry.WorkDate)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, apperr.Conflict("allocation coverage for time entry %s has lapsed", entry.ID)
	}

	entry.Status = model.EntryStatusSubmitted
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return err
		}
		s.audit.Record(txCtx, nil, model.ActionSubmitTimeEntry, entry.ID.String(), "", nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventTimeEntrySubmitted,
		EntityID:   entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Status:     string(entry.Status),
	})
	return entry, nil
}

func (s *timeEntryService) Approve(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.TimeEntry, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry.Status == model.EntryStatusRejected {
		return nil, apperr.Conflict("time entry %s is rejected and cannot be approved", entry.ID)
	}

	entry.Status = model.EntryStatusApproved
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return err
		}
		approval := &model.TimeEntryApproval{
			TimeEntryID: entry.ID,
			ApproverID:  approverID,
			ApprovedAt:  time.Now(),
			Note:        note,
		}
		if err := s.entryRepo.CreateApproval(txCtx, approval); err != nil {
			return err
		}
		s.audit.Record(txCtx, &approverID, model.ActionApproveTimeEntry, entry.ID.String(), "", nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventTimeEntryApproved,
		EntityID:   entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Status:     string(entry.Status),
	})
	return entry, nil
}

func (s *timeEntryService) Reject(ctx context.Context, id string, approverID uuid.UUID, note string) (*model.TimeEntry, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Status = model.EntryStatusRejected
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.entryRepo.Update(txCtx, entry); err != nil {
			return err
		}
		approval := &model.TimeEntryApproval{
			TimeEntryID: entry.ID,
			ApproverID:  approverID,
			ApprovedAt:  time.Now(),
			Note:        "REJECTED: " + note,
		}
		if err := s.entryRepo.CreateApproval(txCtx, approval); err != nil {
			return err
		}
		s.audit.Record(txCtx, &approverID, model.ActionRejectTimeEntry, entry.ID.String(), "", nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(notify.Event{
		Event:      notify.EventTimeEntryRejected,
		EntityID:   entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Status:     string(entry.Status),
	})
	return entry, nil
}

func (s *timeEntryService) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	return s.getEntry(ctx, id)
}

func (s *timeEntryService) ListByEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	if model.DateOnly(to).Before(model.DateOnly(from)) {
		return nil, apperr.Invalid("to date is before from date")
	}
	return s.entryRepo.ListByEmployeeRange(ctx, employeeID, from, to)
}

func (s *timeEntryService) ListApprovals(ctx context.Context, entryID uuid.UUID) ([]model.TimeEntryApproval, error) {
	return s.entryRepo.ListApprovals(ctx, entryID)
}

func (s *timeEntryService) getEntry(ctx context.Context, id string) (*model.TimeEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("time entry %s not found", id)
		}
		return nil, err
	}
	return entry, nil
}
