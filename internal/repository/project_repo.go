package repository

import (
	"context"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository defines data access for Project and ProjectMember.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, page, limit int) ([]model.Project, int64, error)
	Update(ctx context.Context, project *model.Project) error

	CreateMember(ctx context.Context, member *model.ProjectMember) error
	GetMember(ctx context.Context, id string) (*model.ProjectMember, error)
	UpdateMember(ctx context.Context, member *model.ProjectMember) error
	ListMembersByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error)
	// ListActiveMembersByEmployee returns active-flagged memberships with
	// their projects preloaded. Window filtering stays in the service so
	// open-bound semantics live in one place.
	ListActiveMembersByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ProjectMember, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, page, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Save(project).Error
}

func (r *projectRepository) CreateMember(ctx context.Context, member *model.ProjectMember) error {
	return GetDB(ctx, r.db).Create(member).Error
}

func (r *projectRepository) GetMember(ctx context.Context, id string) (*model.ProjectMember, error) {
	var member model.ProjectMember
	if err := GetDB(ctx, r.db).Preload("Project").First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *projectRepository) UpdateMember(ctx context.Context, member *model.ProjectMember) error {
	return GetDB(ctx, r.db).Save(member).Error
}

func (r *projectRepository) ListMembersByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	if err := GetDB(ctx, r.db).Preload("Employee").Where("project_id = ?", projectID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *projectRepository) ListActiveMembersByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	if err := GetDB(ctx, r.db).
		Preload("Project").
		Where("employee_id = ? AND active = ?", employeeID, true).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
