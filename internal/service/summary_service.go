package service

import (
	"context"
	"time"

	"peopleops/internal/apperr"
	"peopleops/internal/model"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectDaySummary is one project's slice of a single day.
type ProjectDaySummary struct {
	ProjectID   uuid.UUID         `json:"project_id"`
	ProjectName string            `json:"project_name"`
	ProjectCode string            `json:"project_code"`
	IsHoliday   bool              `json:"is_holiday"`
	Hours       decimal.Decimal   `json:"hours"`
	Entries     []model.TimeEntry `json:"entries"`
}

// DaySummary groups an employee's day by project across their active
// memberships, whether or not time was logged.
type DaySummary struct {
	Date     time.Time           `json:"date"`
	Projects []ProjectDaySummary `json:"projects"`
}

// WeekSummary is seven consecutive DaySummary rows starting at WeekStart.
type WeekSummary struct {
	WeekStart time.Time    `json:"week_start"`
	WeekEnd   time.Time    `json:"week_end"`
	Days      []DaySummary `json:"days"`
}

// SummaryService is the read-only reconciliation view over time entries,
// holidays and memberships. It never writes.
type SummaryService interface {
	DailySummary(ctx context.Context, employeeID uuid.UUID, day time.Time) (*DaySummary, error)
	WeeklySummary(ctx context.Context, employeeID uuid.UUID, weekStart time.Time) (*WeekSummary, error)
}

type summaryService struct {
	projectRepo repository.ProjectRepository
	entryRepo   repository.TimeEntryRepository
	holidays    HolidayService
}

func NewSummaryService(projectRepo repository.ProjectRepository, entryRepo repository.TimeEntryRepository, holidays HolidayService) SummaryService {
	return &summaryService{projectRepo: projectRepo, entryRepo: entryRepo, holidays: holidays}
}

func (s *summaryService) DailySummary(ctx context.Context, employeeID uuid.UUID, day time.Time) (*DaySummary, error) {
	d := model.DateOnly(day)
	days, err := s.buildRange(ctx, employeeID, d, d)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

func (s *summaryService) WeeklySummary(ctx context.Context, employeeID uuid.UUID, weekStart time.Time) (*WeekSummary, error) {
	from := model.DateOnly(weekStart)
	to := from.AddDate(0, 0, 6)
	days, err := s.buildRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return &WeekSummary{WeekStart: from, WeekEnd: to, Days: days}, nil
}

func (s *summaryService) buildRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]DaySummary, error) {
	if to.Before(from) {
		return nil, apperr.Invalid("summary range end is before its start")
	}

	memberships, err := s.projectRepo.ListActiveMembersByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	// entries keyed by (day, project) for the grouping pass
	type dayProject struct {
		day     time.Time
		project uuid.UUID
	}
	grouped := make(map[dayProject][]model.TimeEntry)
	for _, entry := range entries {
		k := dayProject{day: model.DateOnly(entry.WorkDate), project: entry.ProjectID}
		grouped[k] = append(grouped[k], entry)
	}

	// holiday lookups cached per (calendar, day)
	type calendarDay struct {
		calendar uuid.UUID
		day      time.Time
	}
	holidayCache := make(map[calendarDay]bool)
	isHoliday := func(calendarID uuid.UUID, day time.Time) (bool, error) {
		k := calendarDay{calendar: calendarID, day: day}
		if v, ok := holidayCache[k]; ok {
			return v, nil
		}
		v, err := s.holidays.IsHoliday(ctx, calendarID, day)
		if err != nil {
			return false, err
		}
		holidayCache[k] = v
		return v, nil
	}

	var days []DaySummary
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		summary := DaySummary{Date: day, Projects: []ProjectDaySummary{}}
		for i := range memberships {
			member := &memberships[i]
			if !member.ActiveOn(day) {
				continue
			}

			p := ProjectDaySummary{
				ProjectID: member.ProjectID,
				Hours:     decimal.Zero,
				Entries:   []model.TimeEntry{},
			}
			if member.Project != nil {
				p.ProjectName = member.Project.Name
				p.ProjectCode = member.Project.Code
				if member.Project.HolidayCalendarID != nil {
					holiday, err := isHoliday(*member.Project.HolidayCalendarID, day)
					if err != nil {
						return nil, err
					}
					p.IsHoliday = holiday
				}
			}

			for _, entry := range grouped[dayProject{day: day, project: member.ProjectID}] {
				p.Hours = p.Hours.Add(entry.Hours)
				p.Entries = append(p.Entries, entry)
			}
			summary.Projects = append(summary.Projects, p)
		}
		days = append(days, summary)
	}
	return days, nil
}
