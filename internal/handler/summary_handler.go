package handler

import (
	"net/http"
	"strconv"
	"time"

	"peopleops/internal/middleware"
	"peopleops/internal/model"
	"peopleops/internal/service"
	"peopleops/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SummaryHandler struct {
	summaryService service.SummaryService
	payrollService service.PayrollService
}

func NewSummaryHandler(summaryService service.SummaryService, payrollService service.PayrollService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, payrollService: payrollService}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	payroll := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	router.GET("/employees/:id/summary/daily", anyRole, h.DailySummary)
	router.GET("/employees/:id/summary/weekly", anyRole, h.WeeklySummary)
	router.GET("/employees/:id/unpaid-leave", payroll, h.UnpaidLeave)
}

// DailySummary handles GET /employees/:id/summary/daily?date=...
// @Summary      Daily time summary
// @Description  Groups the employee's day by project with holiday annotation
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Employee ID"
// @Param        date  query     string  false  "Day (YYYY-MM-DD, default today)"
// @Success      200   {object}  response.Response{data=service.DaySummary}
// @Router       /employees/{id}/summary/daily [get]
func (h *SummaryHandler) DailySummary(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	day, ok := parseDateQuery(c, "date", time.Now())
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date"))
		return
	}

	summary, err := h.summaryService.DailySummary(c.Request.Context(), employeeID, day)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// WeeklySummary handles GET /employees/:id/summary/weekly?week_start=...
// @Summary      Weekly time summary
// @Description  Seven daily summaries starting at week_start
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true   "Employee ID"
// @Param        week_start  query     string  false  "Week start (YYYY-MM-DD, default Monday of current week)"
// @Success      200         {object}  response.Response{data=service.WeekSummary}
// @Router       /employees/{id}/summary/weekly [get]
func (h *SummaryHandler) WeeklySummary(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}

	weekStart, ok := parseDateQuery(c, "week_start", mondayOf(time.Now()))
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid week_start date"))
		return
	}

	summary, err := h.summaryService.WeeklySummary(c.Request.Context(), employeeID, weekStart)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// UnpaidLeave handles GET /employees/:id/unpaid-leave?year=2024&month=1
// @Summary      Approved unpaid leave for a month
// @Description  Payroll boundary: approved UNPAID requests clipped to the month for loss-of-pay computation
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Employee ID"
// @Param        year   query     int     true  "Year"
// @Param        month  query     int     true  "Month (1-12)"
// @Success      200    {object}  response.Response{data=[]service.UnpaidLeaveSlice}
// @Failure      422    {object}  response.Response
// @Router       /employees/{id}/unpaid-leave [get]
func (h *SummaryHandler) UnpaidLeave(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid month"))
		return
	}

	slices, err := h.payrollService.UnpaidLeaveForMonth(c.Request.Context(), employeeID, year, time.Month(month))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, slices))
}

// mondayOf returns the Monday of t's week at UTC midnight.
func mondayOf(t time.Time) time.Time {
	d := model.DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
