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

type TimeEntryHandler struct {
	entryService service.TimeEntryService
}

func NewTimeEntryHandler(entryService service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entryService: entryService}
}

func (h *TimeEntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	approver := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	entries := router.Group("/time-entries")
	{
		entries.POST("", anyRole, h.CreateDraft)
		entries.GET("/:id", anyRole, h.GetTimeEntry)
		entries.POST("/:id/submit", anyRole, h.Submit)
		entries.POST("/:id/approve", approver, h.Approve)
		entries.POST("/:id/reject", approver, h.Reject)
		entries.GET("/:id/approvals", approver, h.ListApprovals)
	}

	router.GET("/employees/:id/time-entries", anyRole, h.ListByEmployee)
}

// CreateDraft handles POST /time-entries
// @Summary      Create a draft time entry
// @Description  Validates project, member, WBS element and allocation coverage, then persists a DRAFT entry
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTimeEntryRequest  true  "Time Entry Payload"
// @Success      201      {object}  response.Response{data=model.TimeEntry}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /time-entries [post]
func (h *TimeEntryHandler) CreateDraft(c *gin.Context) {
	var req service.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.entryService.CreateDraft(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// GetTimeEntry handles GET /time-entries/:id
func (h *TimeEntryHandler) GetTimeEntry(c *gin.Context) {
	entry, err := h.entryService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Submit handles POST /time-entries/:id/submit
// @Summary      Submit a draft time entry
// @Description  Re-validates allocation coverage and transitions DRAFT to SUBMITTED
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Time Entry ID"
// @Success      200  {object}  response.Response{data=model.TimeEntry}
// @Failure      409  {object}  response.Response
// @Router       /time-entries/{id}/submit [post]
func (h *TimeEntryHandler) Submit(c *gin.Context) {
	entry, err := h.entryService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Approve handles POST /time-entries/:id/approve
// @Summary      Approve a time entry
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Time Entry ID"
// @Param        payload  body      handler.DecisionRequest  false "Decision Note"
// @Success      200      {object}  response.Response{data=model.TimeEntry}
// @Failure      409      {object}  response.Response
// @Router       /time-entries/{id}/approve [post]
func (h *TimeEntryHandler) Approve(c *gin.Context) {
	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	approver := actorID(c)
	if approver == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Approver identity missing"))
		return
	}

	entry, err := h.entryService.Approve(c.Request.Context(), c.Param("id"), *approver, req.Note)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Reject handles POST /time-entries/:id/reject
// @Summary      Reject a time entry
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Time Entry ID"
// @Param        payload  body      handler.DecisionRequest  false "Decision Note"
// @Success      200      {object}  response.Response{data=model.TimeEntry}
// @Router       /time-entries/{id}/reject [post]
func (h *TimeEntryHandler) Reject(c *gin.Context) {
	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	approver := actorID(c)
	if approver == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Approver identity missing"))
		return
	}

	entry, err := h.entryService.Reject(c.Request.Context(), c.Param("id"), *approver, req.Note)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ListApprovals handles GET /time-entries/:id/approvals
func (h *TimeEntryHandler) ListApprovals(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid time entry id"))
		return
	}

	approvals, err := h.entryService.ListApprovals(c.Request.Context(), entryID)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, approvals))
}

// ListByEmployee handles GET /employees/:id/time-entries?from=...&to=...
// @Summary      List time entries for an employee
// @Description  Date-range listing, defaulting to the last 7 days
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Employee ID"
// @Param        from  query     string  false  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]model.TimeEntry}
// @Router       /employees/{id}/time-entries [get]
func (h *TimeEntryHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}

	now := time.Now()
	from, ok := parseDateQuery(c, "from", now.AddDate(0, 0, -7))
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date"))
		return
	}
	to, ok := parseDateQuery(c, "to", now)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date"))
		return
	}

	entries, err := h.entryService.ListByEmployee(c.Request.Context(), employeeID, from, to)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}
