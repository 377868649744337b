package service

import (
	"context"
	"errors"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceService is the leave-balance ledger. Allocated and consumed are
// hours. Consumption only ever grows: there is no release or refund, so a
// request can only be rejected before its balance is reserved.
type BalanceService interface {
	// GetOrCreate returns the ledger row for the key, or a zero-valued
	// unpersisted row when none exists yet. Rows are persisted lazily by
	// the first Reserve or Allocate.
	GetOrCreate(ctx context.Context, key repository.BalanceKey) (*model.LeaveBalance, error)
	// Reserve consumes hours from the balance. Must run inside the
	// caller's transaction; the row is taken FOR UPDATE so concurrent
	// reserves on one key serialize. Fails with a state conflict when
	// allocated − consumed < needed, leaving consumed untouched.
	Reserve(ctx context.Context, key repository.BalanceKey, needed decimal.Decimal) (*model.LeaveBalance, error)
	// Allocate grants hours. Administrative entry point.
	Allocate(ctx context.Context, key repository.BalanceKey, hours decimal.Decimal, actorID *uuid.UUID) (*model.LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]model.LeaveBalance, error)
}

type balanceService struct {
	repo  repository.LeaveBalanceRepository
	txm   repository.TransactionManager
	audit *AuditRecorder
}

func NewBalanceService(repo repository.LeaveBalanceRepository, txm repository.TransactionManager, audit *AuditRecorder) BalanceService {
	return &balanceService{repo: repo, txm: txm, audit: audit}
}

func (s *balanceService) GetOrCreate(ctx context.Context, key repository.BalanceKey) (*model.LeaveBalance, error) {
	balance, err := s.repo.Get(ctx, key)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &model.LeaveBalance{
		EmployeeID:     key.EmployeeID,
		BusinessUnitID: key.BusinessUnitID,
		Year:           key.Year,
		LeaveType:      key.LeaveType,
		Allocated:      decimal.Zero,
		Consumed:       decimal.Zero,
	}, nil
}

func (s *balanceService) Reserve(ctx context.Context, key repository.BalanceKey, needed decimal.Decimal) (*model.LeaveBalance, error) {
	if needed.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.Invalid("reserve amount must be positive, got %s", needed)
	}

	// Upsert the zero row first so the locked read below always finds a
	// row to lock, even for the first approval on this key.
	if err := s.repo.EnsureRow(ctx, key); err != nil {
		return nil, err
	}

	balance, err := s.repo.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}

	if balance.Remaining().LessThan(needed) {
		return nil, apperr.Conflict(
			"insufficient leave balance: %s %d needs %s hours, %s remaining",
			key.LeaveType, key.Year, needed.StringFixed(2), balance.Remaining().StringFixed(2),
		)
	}

	balance.Consumed = balance.Consumed.Add(needed)
	if err := s.repo.Save(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *balanceService) Allocate(ctx context.Context, key repository.BalanceKey, hours decimal.Decimal, actorID *uuid.UUID) (*model.LeaveBalance, error) {
	if !key.LeaveType.Valid() {
		return nil, apperr.Invalid("unknown leave type %q", key.LeaveType)
	}
	if hours.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.Invalid("allocation must be positive, got %s", hours)
	}

	var balance *model.LeaveBalance
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.EnsureRow(txCtx, key); err != nil {
			return err
		}
		row, err := s.repo.GetForUpdate(txCtx, key)
		if err != nil {
			return err
		}
		row.Allocated = row.Allocated.Add(hours)
		if err := s.repo.Save(txCtx, row); err != nil {
			return err
		}
		s.audit.Record(txCtx, actorID, model.ActionAllocateBalance, row.ID.String(), string(key.LeaveType), map[string]interface{}{
			"employee_id": key.EmployeeID.String(),
			"year":        key.Year,
			"hours":       hours.StringFixed(2),
		})
		balance = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *balanceService) ListByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]model.LeaveBalance, error) {
	return s.repo.ListByEmployee(ctx, employeeID, year)
}
