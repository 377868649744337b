package repository

import (
	"context"
	"errors"
	"time"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntryRepository defines data access for time entries and their
// approval log.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	// LeaveEntryExists is the idempotency guard: at most one LEAVE entry
	// per (employee, project, work date). Scoped to the project so a
	// multi-membership day yields one split entry per project while a
	// re-run of the same approval creates nothing.
	LeaveEntryExists(ctx context.Context, employeeID, projectID uuid.UUID, workDate time.Time) (bool, error)
	ListByEmployeeRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error)
	ListByProjectRange(ctx context.Context, projectID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error)

	CreateApproval(ctx context.Context, approval *model.TimeEntryApproval) error
	ListApprovals(ctx context.Context, timeEntryID uuid.UUID) ([]model.TimeEntryApproval, error)
}

type timeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *model.TimeEntry) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *timeEntryRepository) LeaveEntryExists(ctx context.Context, employeeID, projectID uuid.UUID, workDate time.Time) (bool, error) {
	var entry model.TimeEntry
	err := GetDB(ctx, r.db).
		Where("employee_id = ? AND project_id = ? AND work_date = ? AND entry_type = ?",
			employeeID, projectID, model.DateOnly(workDate), model.EntryTypeLeave).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *timeEntryRepository) ListByEmployeeRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND work_date >= ? AND work_date <= ?",
			employeeID, model.DateOnly(from), model.DateOnly(to)).
		Order("work_date").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timeEntryRepository) ListByProjectRange(ctx context.Context, projectID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	if err := GetDB(ctx, r.db).
		Where("project_id = ? AND work_date >= ? AND work_date <= ?",
			projectID, model.DateOnly(from), model.DateOnly(to)).
		Order("work_date").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timeEntryRepository) CreateApproval(ctx context.Context, approval *model.TimeEntryApproval) error {
	return GetDB(ctx, r.db).Create(approval).Error
}

func (r *timeEntryRepository) ListApprovals(ctx context.Context, timeEntryID uuid.UUID) ([]model.TimeEntryApproval, error) {
	var approvals []model.TimeEntryApproval
	if err := GetDB(ctx, r.db).
		Where("time_entry_id = ?", timeEntryID).
		Order("created_at").
		Find(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}
