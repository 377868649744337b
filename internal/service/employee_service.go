package service

import (
	"context"
	"errors"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/repository"

	"gorm.io/gorm"
)

// DTOs

type CreateBusinessUnitRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	BusinessUnitID string `json:"business_unit_id" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName       string `json:"full_name"`
	BusinessUnitID string `json:"business_unit_id"`
	Active         *bool  `json:"active"`
}

// EmployeeService administers business units and the HR records time and
// leave are tracked against.
type EmployeeService interface {
	CreateBusinessUnit(ctx context.Context, req CreateBusinessUnitRequest) (*model.BusinessUnit, error)
	ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context, page, limit int) ([]model.Employee, int64, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error)
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) CreateBusinessUnit(ctx context.Context, req CreateBusinessUnitRequest) (*model.BusinessUnit, error) {
	unit := &model.BusinessUnit{Name: req.Name, Code: req.Code}
	if err := s.repo.CreateBusinessUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *employeeService) ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error) {
	return s.repo.ListBusinessUnits(ctx)
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	unit, err := s.repo.GetBusinessUnit(ctx, req.BusinessUnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("business unit %s not found", req.BusinessUnitID)
		}
		return nil, err
	}

	employee := &model.Employee{
		FullName:       req.FullName,
		Email:          req.Email,
		BusinessUnitID: unit.ID,
		Active:         true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("employee %s not found", id)
		}
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, page, limit int) ([]model.Employee, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.repo.List(ctx, page, limit)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		employee.FullName = req.FullName
	}
	if req.BusinessUnitID != "" {
		unit, err := s.repo.GetBusinessUnit(ctx, req.BusinessUnitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("business unit %s not found", req.BusinessUnitID)
			}
			return nil, err
		}
		employee.BusinessUnitID = unit.ID
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}
