package handler

import (
	"net/http"
	"time"

	"peopleops/internal/middleware"
	"peopleops/internal/model"
	"peopleops/internal/service"
	"peopleops/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HolidayHandler struct {
	holidayService service.HolidayService
}

func NewHolidayHandler(holidayService service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidayService: holidayService}
}

func (h *HolidayHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	admin := middleware.RequireRole(model.RoleAdmin)

	calendars := router.Group("/holiday-calendars")
	{
		calendars.POST("", admin, h.CreateCalendar)
		calendars.GET("", anyRole, h.ListCalendars)
		calendars.GET("/:id/days", anyRole, h.ListHolidays)
		calendars.POST("/:id/days", admin, h.AddHoliday)
		calendars.DELETE("/:id/days/:dayId", admin, h.RemoveHoliday)
	}
}

// CreateCalendar handles POST /holiday-calendars
// @Summary      Create a holiday calendar
// @Tags         holidays
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCalendarRequest  true  "Calendar Payload"
// @Success      201      {object}  response.Response{data=model.HolidayCalendar}
// @Router       /holiday-calendars [post]
func (h *HolidayHandler) CreateCalendar(c *gin.Context) {
	var req service.CreateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	calendar, err := h.holidayService.CreateCalendar(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, calendar))
}

// ListCalendars handles GET /holiday-calendars
func (h *HolidayHandler) ListCalendars(c *gin.Context) {
	calendars, err := h.holidayService.ListCalendars(c.Request.Context())
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, calendars))
}

// ListHolidays handles GET /holiday-calendars/:id/days?from=...&to=...
// @Summary      List holidays in a range
// @Tags         holidays
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Calendar ID"
// @Param        from  query     string  false  "Range start (YYYY-MM-DD, default start of year)"
// @Param        to    query     string  false  "Range end (YYYY-MM-DD, default end of year)"
// @Success      200   {object}  response.Response{data=[]model.HolidayDay}
// @Router       /holiday-calendars/{id}/days [get]
func (h *HolidayHandler) ListHolidays(c *gin.Context) {
	calendarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid calendar id"))
		return
	}

	year := time.Now().Year()
	from, ok := parseDateQuery(c, "from", time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date"))
		return
	}
	to, ok := parseDateQuery(c, "to", time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date"))
		return
	}

	days, err := h.holidayService.ListHolidays(c.Request.Context(), calendarID, from, to)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, days))
}

// AddHoliday handles POST /holiday-calendars/:id/days
// @Summary      Add a holiday to a calendar
// @Tags         holidays
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Calendar ID"
// @Param        payload  body      service.AddHolidayRequest  true  "Holiday Payload"
// @Success      201      {object}  response.Response{data=model.HolidayDay}
// @Failure      409      {object}  response.Response
// @Router       /holiday-calendars/{id}/days [post]
func (h *HolidayHandler) AddHoliday(c *gin.Context) {
	var req service.AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	day, err := h.holidayService.AddHoliday(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, day))
}

// RemoveHoliday handles DELETE /holiday-calendars/:id/days/:dayId
func (h *HolidayHandler) RemoveHoliday(c *gin.Context) {
	if err := h.holidayService.RemoveHoliday(c.Request.Context(), c.Param("id"), c.Param("dayId")); err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Holiday removed"))
}
