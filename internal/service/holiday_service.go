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

type CreateCalendarRequest struct {
	Name   string `json:"name" binding:"required"`
	Region string `json:"region"`
}

type AddHolidayRequest struct {
	Date       time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	Name       string    `json:"name" binding:"required"`
	IsOptional bool      `json:"is_optional"`
}

// HolidayService answers holiday lookups for the leave workflow and the
// summary view, and administers calendars.
type HolidayService interface {
	IsHoliday(ctx context.Context, calendarID uuid.UUID, date time.Time) (bool, error)
	ListHolidays(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]model.HolidayDay, error)

	CreateCalendar(ctx context.Context, req CreateCalendarRequest) (*model.HolidayCalendar, error)
	ListCalendars(ctx context.Context) ([]model.HolidayCalendar, error)
	AddHoliday(ctx context.Context, calendarID string, req AddHolidayRequest) (*model.HolidayDay, error)
	RemoveHoliday(ctx context.Context, calendarID, dayID string) error
}

type holidayService struct {
	repo repository.HolidayRepository
}

func NewHolidayService(repo repository.HolidayRepository) HolidayService {
	return &holidayService{repo: repo}
}

func (s *holidayService) IsHoliday(ctx context.Context, calendarID uuid.UUID, date time.Time) (bool, error) {
	return s.repo.DayExists(ctx, calendarID, date)
}

func (s *holidayService) ListHolidays(ctx context.Context, calendarID uuid.UUID, from, to time.Time) ([]model.HolidayDay, error) {
	if model.DateOnly(to).Before(model.DateOnly(from)) {
		return nil, apperr.Invalid("to date %s is before from date %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return s.repo.ListDays(ctx, calendarID, from, to)
}

func (s *holidayService) CreateCalendar(ctx context.Context, req CreateCalendarRequest) (*model.HolidayCalendar, error) {
	calendar := &model.HolidayCalendar{Name: req.Name, Region: req.Region}
	if err := s.repo.CreateCalendar(ctx, calendar); err != nil {
		return nil, err
	}
	return calendar, nil
}

func (s *holidayService) ListCalendars(ctx context.Context) ([]model.HolidayCalendar, error) {
	return s.repo.ListCalendars(ctx)
}

func (s *holidayService) AddHoliday(ctx context.Context, calendarID string, req AddHolidayRequest) (*model.HolidayDay, error) {
	calendar, err := s.repo.GetCalendar(ctx, calendarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("holiday calendar %s not found", calendarID)
		}
		return nil, err
	}

	exists, err := s.repo.DayExists(ctx, calendar.ID, req.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("calendar %s already has a holiday on %s", calendarID, req.Date.Format("2006-01-02"))
	}

	day := &model.HolidayDay{
		CalendarID: calendar.ID,
		Date:       model.DateOnly(req.Date),
		Name:       req.Name,
		IsOptional: req.IsOptional,
	}
	if err := s.repo.AddDay(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *holidayService) RemoveHoliday(ctx context.Context, calendarID, dayID string) error {
	if _, err := s.repo.GetCalendar(ctx, calendarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("holiday calendar %s not found", calendarID)
		}
		return err
	}
	return s.repo.RemoveDay(ctx, dayID)
}
