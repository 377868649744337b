package repository

import (
	"context"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceKey identifies one ledger row.
type BalanceKey struct {
	EmployeeID     uuid.UUID
	BusinessUnitID uuid.UUID
	Year           int
	LeaveType      model.LeaveType
}

// LeaveBalanceRepository defines data access for the leave-balance ledger.
type LeaveBalanceRepository interface {
	Get(ctx context.Context, key BalanceKey) (*model.LeaveBalance, error)
	// EnsureRow inserts a zero row for the key if none exists. Uses an
	// ON CONFLICT DO NOTHING upsert so two first-time approvals cannot
	// both insert.
	EnsureRow(ctx context.Context, key BalanceKey) error
	// GetForUpdate loads the row under SELECT ... FOR UPDATE. Must be
	// called inside a transaction; concurrent reserves on the same key
	// serialize on this lock.
	GetForUpdate(ctx context.Context, key BalanceKey) (*model.LeaveBalance, error)
	Save(ctx context.Context, balance *model.LeaveBalance) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]model.LeaveBalance, error)
}

type leaveBalanceRepository struct {
	db *gorm.DB
}

func NewLeaveBalanceRepository(db *gorm.DB) LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

func keyQuery(db *gorm.DB, key BalanceKey) *gorm.DB {
	return db.Where(
		"employee_id = ? AND business_unit_id = ? AND year = ? AND leave_type = ?",
		key.EmployeeID, key.BusinessUnitID, key.Year, key.LeaveType,
	)
}

func (r *leaveBalanceRepository) Get(ctx context.Context, key BalanceKey) (*model.LeaveBalance, error) {
	var balance model.LeaveBalance
	if err := keyQuery(GetDB(ctx, r.db), key).First(&balance).Error; err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *leaveBalanceRepository) EnsureRow(ctx context.Context, key BalanceKey) error {
	row := model.LeaveBalance{
		EmployeeID:     key.EmployeeID,
		BusinessUnitID: key.BusinessUnitID,
		Year:           key.Year,
		LeaveType:      key.LeaveType,
	}
	return GetDB(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"}, {Name: "business_unit_id"}, {Name: "year"}, {Name: "leave_type"},
			},
			DoNothing: true,
		}).
		Create(&row).Error
}

func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, key BalanceKey) (*model.LeaveBalance, error) {
	var balance model.LeaveBalance
	err := keyQuery(GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), key).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *leaveBalanceRepository) Save(ctx context.Context, balance *model.LeaveBalance) error {
	return GetDB(ctx, r.db).Save(balance).Error
}

func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]model.LeaveBalance, error) {
	var balances []model.LeaveBalance
	if err := GetDB(ctx, r.db).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type").
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}
