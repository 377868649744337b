package repository

import (
	"context"

	"peopleops/internal/model"

	"gorm.io/gorm"
)

// EmployeeRepository defines data access for Employee and BusinessUnit.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, page, limit int) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error

	CreateBusinessUnit(ctx context.Context, unit *model.BusinessUnit) error
	GetBusinessUnit(ctx context.Context, id string) (*model.BusinessUnit, error)
	ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).Preload("BusinessUnit").First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("BusinessUnit").Order("full_name").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) CreateBusinessUnit(ctx context.Context, unit *model.BusinessUnit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *employeeRepository) GetBusinessUnit(ctx context.Context, id string) (*model.BusinessUnit, error) {
	var unit model.BusinessUnit
	if err := GetDB(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *employeeRepository) ListBusinessUnits(ctx context.Context) ([]model.BusinessUnit, error) {
	var units []model.BusinessUnit
	if err := GetDB(ctx, r.db).Order("code").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}
