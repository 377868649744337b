package repository

import (
	"context"
	"time"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRequestRepository defines data access for leave requests.
// Requests are never deleted; they are the audit trail.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	Update(ctx context.Context, request *model.LeaveRequest) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.LeaveRequest, int64, error)
	ListByStatus(ctx context.Context, status model.LeaveStatus, page, limit int) ([]model.LeaveRequest, int64, error)
	// ListApprovedOverlapping returns APPROVED requests of the given type
	// whose [from_date, to_date] window intersects [from, to].
	ListApprovedOverlapping(ctx context.Context, employeeID uuid.UUID, leaveType model.LeaveType, from, to time.Time) ([]model.LeaveRequest, error)
}

type leaveRequestRepository struct {
	db *gorm.DB
}

func NewLeaveRequestRepository(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var request model.LeaveRequest
	if err := GetDB(ctx, r.db).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, request *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.LeaveRequest, int64, error) {
	db := GetDB(ctx, r.db).Model(&model.LeaveRequest{}).Where("employee_id = ?", employeeID)
	return paginateRequests(db, page, limit)
}

func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status model.LeaveStatus, page, limit int) ([]model.LeaveRequest, int64, error) {
	db := GetDB(ctx, r.db).Model(&model.LeaveRequest{}).Where("status = ?", status)
	return paginateRequests(db, page, limit)
}

func paginateRequests(db *gorm.DB, page, limit int) ([]model.LeaveRequest, int64, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.LeaveRequest
	offset := (page - 1) * limit
	if err := db.Preload("Employee").Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, employeeID uuid.UUID, leaveType model.LeaveType, from, to time.Time) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND leave_type = ? AND status = ?", employeeID, leaveType, model.LeaveStatusApproved).
		Where("from_date <= ? AND to_date >= ?", model.DateOnly(to), model.DateOnly(from)).
		Order("from_date").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
