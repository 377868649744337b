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

type CreateProjectRequest struct {
	Name              string `json:"name" binding:"required"`
	Code              string `json:"code"`
	HolidayCalendarID string `json:"holiday_calendar_id"`
}

type AddMemberRequest struct {
	EmployeeID         string     `json:"employee_id" binding:"required"`
	Role               string     `json:"role"`
	ReportingManagerID string     `json:"reporting_manager_id"`
	StartDate          *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate            *time.Time `json:"end_date" time_format:"2006-01-02"`
}

type CreateWBSElementRequest struct {
	Name      string     `json:"name" binding:"required"`
	Code      string     `json:"code" binding:"required"`
	Category  string     `json:"category"`
	StartDate *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"end_date" time_format:"2006-01-02"`
}

// ProjectService administers projects, memberships and WBS elements. The
// member windows and element windows it persists here are what the
// allocation guard and the leave materializer later evaluate.
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, page, limit int) ([]model.Project, int64, error)
	AttachCalendar(ctx context.Context, projectID, calendarID string) (*model.Project, error)

	AddMember(ctx context.Context, projectID string, req AddMemberRequest, actorID *uuid.UUID) (*model.ProjectMember, error)
	DeactivateMember(ctx context.Context, memberID string) (*model.ProjectMember, error)
	ListMembers(ctx context.Context, projectID string) ([]model.ProjectMember, error)

	CreateWBSElement(ctx context.Context, projectID string, req CreateWBSElementRequest, actorID *uuid.UUID) (*model.WBSElement, error)
	ListWBSElements(ctx context.Context, projectID string) ([]model.WBSElement, error)
	DisableWBSElement(ctx context.Context, id string) (*model.WBSElement, error)
}

type projectService struct {
	repo         repository.ProjectRepository
	wbsRepo      repository.WBSRepository
	employeeRepo repository.EmployeeRepository
	holidayRepo  repository.HolidayRepository
	txm          repository.TransactionManager
	audit        *AuditRecorder
}

func NewProjectService(
	repo repository.ProjectRepository,
	wbsRepo repository.WBSRepository,
	employeeRepo repository.EmployeeRepository,
	holidayRepo repository.HolidayRepository,
	txm repository.TransactionManager,
	audit *AuditRecorder,
) ProjectService {
	return &projectService{
		repo:         repo,
		wbsRepo:      wbsRepo,
		employeeRepo: employeeRepo,
		holidayRepo:  holidayRepo,
		txm:          txm,
		audit:        audit,
	}
}

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*model.Project, error) {
	project := &model.Project{Name: req.Name, Code: req.Code, Active: true}

	if req.HolidayCalendarID != "" {
		calendar, err := s.holidayRepo.GetCalendar(ctx, req.HolidayCalendarID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("holiday calendar %s not found", req.HolidayCalendarID)
			}
			return nil, err
		}
		project.HolidayCalendarID = &calendar.ID
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project %s not found", id)
		}
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, page, limit int) ([]model.Project, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.List(ctx, page, limit)
}

func (s *projectService) AttachCalendar(ctx context.Context, projectID, calendarID string) (*model.Project, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	calendar, err := s.holidayRepo.GetCalendar(ctx, calendarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("holiday calendar %s not found", calendarID)
		}
		return nil, err
	}

	project.HolidayCalendarID = &calendar.ID
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) AddMember(ctx context.Context, projectID string, req AddMemberRequest, actorID *uuid.UUID) (*model.ProjectMember, error) {
	if req.StartDate != nil && req.EndDate != nil &&
		model.DateOnly(*req.EndDate).Before(model.DateOnly(*req.StartDate)) {
		return nil, apperr.Invalid("membership end date is before its start date")
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
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

	member := &model.ProjectMember{
		ProjectID:  project.ID,
		EmployeeID: employee.ID,
		Role:       req.Role,
		Active:     true,
	}
	if req.StartDate != nil {
		d := model.DateOnly(*req.StartDate)
		member.StartDate = &d
	}
	if req.EndDate != nil {
		d := model.DateOnly(*req.EndDate)
		member.EndDate = &d
	}
	if req.ReportingManagerID != "" {
		managerID, err := uuid.Parse(req.ReportingManagerID)
		if err != nil {
			return nil, apperr.Invalid("invalid reporting manager id: %v", err)
		}
		member.ReportingManagerID = &managerID
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateMember(txCtx, member); err != nil {
			return err
		}
		s.audit.Record(txCtx, actorID, model.ActionAddProjectMember, member.ID.String(), employee.FullName, map[string]interface{}{
			"project_id":  project.ID.String(),
			"employee_id": employee.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *projectService) DeactivateMember(ctx context.Context, memberID string) (*model.ProjectMember, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project member %s not found", memberID)
		}
		return nil, err
	}
	if !member.Active {
		return member, nil
	}

	member.Active = false
	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *projectService) ListMembers(ctx context.Context, projectID string) ([]model.ProjectMember, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembersByProject(ctx, project.ID)
}

func (s *projectService) CreateWBSElement(ctx context.Context, projectID string, req CreateWBSElementRequest, actorID *uuid.UUID) (*model.WBSElement, error) {
	if req.StartDate != nil && req.EndDate != nil &&
		model.DateOnly(*req.EndDate).Before(model.DateOnly(*req.StartDate)) {
		return nil, apperr.Invalid("wbs element end date is before its start date")
	}

	category := req.Category
	if category == "" {
		category = model.WBSCategoryDelivery
	}
	switch category {
	case model.WBSCategoryDelivery, model.WBSCategorySupport, model.WBSCategoryInternal, model.WBSCategoryLeave:
	default:
		return nil, apperr.Invalid("unknown wbs category %q", category)
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.wbsRepo.GetElementByCode(ctx, project.ID, req.Code); err == nil {
		return nil, apperr.Conflict("project %s already has a wbs element with code %s", project.ID, req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	element := &model.WBSElement{
		ProjectID: project.ID,
		Name:      req.Name,
		Code:      req.Code,
		Category:  category,
	}
	if req.StartDate != nil {
		d := model.DateOnly(*req.StartDate)
		element.StartDate = &d
	}
	if req.EndDate != nil {
		d := model.DateOnly(*req.EndDate)
		element.EndDate = &d
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.wbsRepo.CreateElement(txCtx, element); err != nil {
			return err
		}
		s.audit.Record(txCtx, actorID, model.ActionCreateWBSElement, element.ID.String(), element.Code, map[string]interface{}{
			"project_id": project.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return element, nil
}

func (s *projectService) ListWBSElements(ctx context.Context, projectID string) ([]model.WBSElement, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.wbsRepo.ListElementsByProject(ctx, project.ID)
}

func (s *projectService) DisableWBSElement(ctx context.Context, id string) (*model.WBSElement, error) {
	element, err := s.wbsRepo.GetElement(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("wbs element %s not found", id)
		}
		return nil, err
	}
	if element.Disabled {
		return element, nil
	}

	element.Disabled = true
	if err := s.wbsRepo.UpdateElement(ctx, element); err != nil {
		return nil, err
	}
	return element, nil
}
