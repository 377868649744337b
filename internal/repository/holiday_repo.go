package repository

import (
	"context"
	"errors"
	"time"

	"peopleops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HolidayRepository defines data access for calendars and holiday days.
type HolidayRepository interface {
	CreateCalendar(ctx context.Context, calendar *model.HolidayCalendar) error
	GetCalendar(ctx context.Context, id string) (*model.HolidayCalendar, error)
	ListCalendars(ctx context.Context) ([]model.HolidayCalendar, error)

	AddDay(ctx context.Context, day *model.HolidayDay) error
	RemoveDay(ctx context.Context, id string) error
	// DayExists is the "is date X a holiday for calendar Y" check.
	DayExists(ctx context.Context, calendarID uuid.UUID, date time.Time) (bool, error)
	ListDays(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]model.HolidayDay, error)
}

type holidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) CreateCalendar(ctx context.Context, calendar *model.HolidayCalendar) error {
	return GetDB(ctx, r.db).Create(calendar).Error
}

func (r *holidayRepository) GetCalendar(ctx context.Context, id string) (*model.HolidayCalendar, error) {
	var calendar model.HolidayCalendar
	if err := GetDB(ctx, r.db).First(&calendar, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &calendar, nil
}

func (r *holidayRepository) ListCalendars(ctx context.Context) ([]model.HolidayCalendar, error) {
	var calendars []model.HolidayCalendar
	if err := GetDB(ctx, r.db).Order("name").Find(&calendars).Error; err != nil {
		return nil, err
	}
	return calendars, nil
}

func (r *holidayRepository) AddDay(ctx context.Context, day *model.HolidayDay) error {
	return GetDB(ctx, r.db).Create(day).Error
}

func (r *holidayRepository) RemoveDay(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.HolidayDay{}).Error
}

func (r *holidayRepository) DayExists(ctx context.Context, calendarID uuid.UUID, date time.Time) (bool, error) {
	var day model.HolidayDay
	err := GetDB(ctx, r.db).
		Where("calendar_id = ? AND date = ?", calendarID, model.DateOnly(date)).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *holidayRepository) ListDays(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]model.HolidayDay, error) {
	var days []model.HolidayDay
	if err := GetDB(ctx, r.db).
		Where("calendar_id = ? AND date >= ? AND date <= ?", calendarID, model.DateOnly(from), model.DateOnly(to)).
		Order("date").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}
