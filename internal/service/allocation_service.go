package service

import (
	"context"
	"errors"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs

type CreateAllocationRequest struct {
	MemberID     string     `json:"member_id" binding:"required"`
	WBSElementID string     `json:"wbs_element_id" binding:"required"`
	StartDate    *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate      *time.Time `json:"end_date" time_format:"2006-01-02"`
}

// AllocationService guards the member↔WBS binding that entitles time
// logging. Two entry points create allocations: the administrative path
// (CreateAllocation, full validation) and the leave path (EnsureCoverage,
// single-day windows). Both apply the element-window check.
type AllocationService interface {
	// EnsureCoverage returns an active allocation covering day, creating
	// a [day, day] allocation when none exists. Joins the ambient
	// transaction when called from the leave workflow.
	EnsureCoverage(ctx context.Context, memberID, wbsElementID uuid.UUID, day time.Time) (*model.WBSAllocation, error)
	// IsCovered gates time-entry creation and submission.
	IsCovered(ctx context.Context, memberID, wbsElementID uuid.UUID, day time.Time) (bool, error)

	CreateAllocation(ctx context.Context, req CreateAllocationRequest, actorID *uuid.UUID) (*model.WBSAllocation, error)
	DeactivateAllocation(ctx context.Context, id string, actorID *uuid.UUID) (*model.WBSAllocation, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.WBSAllocation, error)
}

type allocationService struct {
	wbsRepo     repository.WBSRepository
	projectRepo repository.ProjectRepository
	txm         repository.TransactionManager
	audit       *AuditRecorder
}

func NewAllocationService(
	wbsRepo repository.WBSRepository,
	projectRepo repository.ProjectRepository,
	txm repository.TransactionManager,
	audit *AuditRecorder,
) AllocationService {
	return &allocationService{wbsRepo: wbsRepo, projectRepo: projectRepo, txm: txm, audit: audit}
}

func (s *allocationService) IsCovered(ctx context.Context, memberID, wbsElementID uuid.UUID, day time.Time) (bool, error) {
	allocations, err := s.wbsRepo.ListActiveAllocations(ctx, memberID, wbsElementID)
	if err != nil {
		return false, err
	}
	for _, allocation := range allocations {
		if allocation.Covers(day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *allocationService) EnsureCoverage(ctx context.Context, memberID, wbsElementID uuid.UUID, day time.Time) (*model.WBSAllocation, error) {
	var result *model.WBSAllocation
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		allocations, err := s.wbsRepo.ListActiveAllocations(txCtx, memberID, wbsElementID)
		if err != nil {
			return err
		}
		for i := range allocations {
			if allocations[i].Covers(day) {
				result = &allocations[i]
				return nil
			}
		}

		element, err := s.wbsRepo.GetElement(txCtx, wbsElementID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("wbs element %s not found", wbsElementID)
			}
			return err
		}
		if element.Disabled {
			return apperr.Conflict("wbs element %s is disabled", element.Code)
		}
		if !element.WindowContains(day, day) {
			return apperr.Conflict("date %s is outside the window of wbs element %s", day.Format("2006-01-02"), element.Code)
		}

		d := model.DateOnly(day)
		allocation := &model.WBSAllocation{
			MemberID:     memberID,
			WBSElementID: wbsElementID,
			StartDate:    &d,
			EndDate:      &d,
			Active:       true,
		}
		if err := s.wbsRepo.CreateAllocation(txCtx, allocation); err != nil {
			return err
		}
		result = allocation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *allocationService) CreateAllocation(ctx context.Context, req CreateAllocationRequest, actorID *uuid.UUID) (*model.WBSAllocation, error) {
	if req.StartDate != nil && req.EndDate != nil &&
		model.DateOnly(*req.EndDate).Before(model.DateOnly(*req.StartDate)) {
		return nil, apperr.Invalid("allocation end date is before its start date")
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

	if member.ProjectID != element.ProjectID {
		return nil, apperr.Conflict("member %s and wbs element %s belong to different projects", member.ID, element.Code)
	}
	if element.Disabled {
		return nil, apperr.Conflict("wbs element %s is disabled", element.Code)
	}
	// The requested window, when fully bounded, must sit inside the
	// element's own window. Reported as a conflict, never silently
	// clamped.
	if req.StartDate != nil && req.EndDate != nil {
		if !element.WindowContains(*req.StartDate, *req.EndDate) {
			return nil, apperr.Conflict("allocation window is outside the window of wbs element %s", element.Code)
		}
	}

	var start, end *time.Time
	if req.StartDate != nil {
		d := model.DateOnly(*req.StartDate)
		start = &d
	}
	if req.EndDate != nil {
		d := model.DateOnly(*req.EndDate)
		end = &d
	}

	allocation := &model.WBSAllocation{
		MemberID:     member.ID,
		WBSElementID: element.ID,
		StartDate:    start,
		EndDate:      end,
		Active:       true,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.wbsRepo.CreateAllocation(txCtx, allocation); err != nil {
			return err
		}
		s.audit.Record(txCtx, actorID, model.ActionCreateAllocation, allocation.ID.String(), element.Code, map[string]interface{}{
			"member_id":      member.ID.String(),
			"wbs_element_id": element.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *allocationService) DeactivateAllocation(ctx context.Context, id string, actorID *uuid.UUID) (*model.WBSAllocation, error) {
	allocation, err := s.wbsRepo.GetAllocation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("allocation %s not found", id)
		}
		return nil, err
	}
	if !allocation.Active {
		return allocation, nil
	}

	allocation.Active = false
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.wbsRepo.UpdateAllocation(txCtx, allocation); err != nil {
			return err
		}
		s.audit.Record(txCtx, actorID, model.ActionDeactivateAllocation, allocation.ID.String(), "", nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *allocationService) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.WBSAllocation, error) {
	return s.wbsRepo.ListAllocationsByMember(ctx, memberID)
}
