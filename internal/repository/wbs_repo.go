package repository

import (
	"context"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WBSRepository defines data access for WBS elements and allocations.
type WBSRepository interface {
	CreateElement(ctx context.Context, element *model.WBSElement) error
	GetElement(ctx context.Context, id string) (*model.WBSElement, error)
	GetElementByCode(ctx context.Context, projectID uuid.UUID, code string) (*model.WBSElement, error)
	ListElementsByProject(ctx context.Context, projectID uuid.UUID) ([]model.WBSElement, error)
	UpdateElement(ctx context.Context, element *model.WBSElement) error

	CreateAllocation(ctx context.Context, allocation *model.WBSAllocation) error
	GetAllocation(ctx context.Context, id string) (*model.WBSAllocation, error)
	UpdateAllocation(ctx context.Context, allocation *model.WBSAllocation) error
	// ListActiveAllocations returns active-flagged allocations for the
	// (member, element) pair; window coverage is evaluated by the caller.
	ListActiveAllocations(ctx context.Context, memberID, wbsElementID uuid.UUID) ([]model.WBSAllocation, error)
	ListAllocationsByMember(ctx context.Context, memberID uuid.UUID) ([]model.WBSAllocation, error)
}

type wbsRepository struct {
	db *gorm.DB
}

func NewWBSRepository(db *gorm.DB) WBSRepository {
	return &wbsRepository{db: db}
}

func (r *wbsRepository) CreateElement(ctx context.Context, element *model.WBSElement) error {
	return GetDB(ctx, r.db).Create(element).Error
}

func (r *wbsRepository) GetElement(ctx context.Context, id string) (*model.WBSElement, error) {
	var element model.WBSElement
	if err := GetDB(ctx, r.db).First(&element, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

func (r *wbsRepository) GetElementByCode(ctx context.Context, projectID uuid.UUID, code string) (*model.WBSElement, error) {
	var element model.WBSElement
	if err := GetDB(ctx, r.db).First(&element, "project_id = ? AND code = ?", projectID, code).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

func (r *wbsRepository) ListElementsByProject(ctx context.Context, projectID uuid.UUID) ([]model.WBSElement, error) {
	var elements []model.WBSElement
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("code").Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *wbsRepository) UpdateElement(ctx context.Context, element *model.WBSElement) error {
	return GetDB(ctx, r.db).Save(element).Error
}

func (r *wbsRepository) CreateAllocation(ctx context.Context, allocation *model.WBSAllocation) error {
	return GetDB(ctx, r.db).Create(allocation).Error
}

func (r *wbsRepository) GetAllocation(ctx context.Context, id string) (*model.WBSAllocation, error) {
	var allocation model.WBSAllocation
	if err := GetDB(ctx, r.db).First(&allocation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *wbsRepository) UpdateAllocation(ctx context.Context, allocation *model.WBSAllocation) error {
	return GetDB(ctx, r.db).Save(allocation).Error
}

func (r *wbsRepository) ListActiveAllocations(ctx context.Context, memberID, wbsElementID uuid.UUID) ([]model.WBSAllocation, error) {
	var allocations []model.WBSAllocation
	if err := GetDB(ctx, r.db).
		Where("member_id = ? AND wbs_element_id = ? AND active = ?", memberID, wbsElementID, true).
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *wbsRepository) ListAllocationsByMember(ctx context.Context, memberID uuid.UUID) ([]model.WBSAllocation, error) {
	var allocations []model.WBSAllocation
	if err := GetDB(ctx, r.db).Where("member_id = ?", memberID).Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}
