package handler

import (
	"net/http"
	"strconv"

	"peopleops/internal/middleware"
	"peopleops/internal/model"
	"peopleops/internal/repository"
	"peopleops/internal/service"
	"peopleops/pkg/pagination"
	"peopleops/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DecisionRequest struct {
	Note string `json:"note"`
}

type AllocateBalanceRequest struct {
	EmployeeID     string          `json:"employee_id" binding:"required"`
	BusinessUnitID string          `json:"business_unit_id" binding:"required"`
	Year           int             `json:"year" binding:"required"`
	LeaveType      model.LeaveType `json:"leave_type" binding:"required"`
	Hours          decimal.Decimal `json:"hours" binding:"required"`
}

type LeaveHandler struct {
	leaveService   service.LeaveService
	balanceService service.BalanceService
}

func NewLeaveHandler(leaveService service.LeaveService, balanceService service.BalanceService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, balanceService: balanceService}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	approver := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	leaves := router.Group("/leave-requests")
	{
		leaves.POST("", anyRole, h.CreateLeaveRequest)
		leaves.GET("/:id", anyRole, h.GetLeaveRequest)
		leaves.GET("", approver, h.ListByStatus)
		leaves.POST("/:id/approve", approver, h.ApproveLeaveRequest)
		leaves.POST("/:id/reject", approver, h.RejectLeaveRequest)
	}

	router.GET("/employees/:id/leave-requests", anyRole, h.ListByEmployee)
	router.GET("/employees/:id/leave-balances", anyRole, h.ListBalances)
	router.POST("/leave-balances", middleware.RequireRole(model.RoleAdmin), h.AllocateBalance)
}

// CreateLeaveRequest handles POST /leave-requests
// @Summary      File a leave request
// @Description  Creates a REQUESTED leave request for an employee
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave Request Payload"
// @Success      201      {object}  response.Response{data=model.LeaveRequest}
// @Failure      422      {object}  response.Response
// @Router       /leave-requests [post]
func (h *LeaveHandler) CreateLeaveRequest(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.leaveService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// GetLeaveRequest handles GET /leave-requests/:id
// @Summary      Get a leave request
// @Tags         leave
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response{data=model.LeaveRequest}
// @Failure      404  {object}  response.Response
// @Router       /leave-requests/{id} [get]
func (h *LeaveHandler) GetLeaveRequest(c *gin.Context) {
	request, err := h.leaveService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproveLeaveRequest handles POST /leave-requests/:id/approve
// @Summary      Approve a leave request
// @Description  Reserves leave balance and materializes per-day DRAFT LEAVE time entries
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Leave Request ID"
// @Param        payload  body      handler.DecisionRequest  false "Decision Note"
// @Success      200      {object}  response.Response{data=model.LeaveRequest}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /leave-requests/{id}/approve [post]
func (h *LeaveHandler) ApproveLeaveRequest(c *gin.Context) {
	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	approver := actorID(c)
	if approver == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Approver identity missing"))
		return
	}

	request, err := h.leaveService.Approve(c.Request.Context(), c.Param("id"), *approver, req.Note)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// RejectLeaveRequest handles POST /leave-requests/:id/reject
// @Summary      Reject a leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Leave Request ID"
// @Param        payload  body      handler.DecisionRequest  false "Decision Note"
// @Success      200      {object}  response.Response{data=model.LeaveRequest}
// @Failure      409      {object}  response.Response
// @Router       /leave-requests/{id}/reject [post]
func (h *LeaveHandler) RejectLeaveRequest(c *gin.Context) {
	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	approver := actorID(c)
	if approver == nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Approver identity missing"))
		return
	}

	request, err := h.leaveService.Reject(c.Request.Context(), c.Param("id"), *approver, req.Note)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ListByStatus handles GET /leave-requests?status=REQUESTED
// @Summary      List leave requests by status
// @Tags         leave
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter (default REQUESTED)"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=object}
// @Router       /leave-requests [get]
func (h *LeaveHandler) ListByStatus(c *gin.Context) {
	params := pagination.Parse(c)
	status := model.LeaveStatus(c.DefaultQuery("status", string(model.LeaveStatusRequested)))

	requests, total, err := h.leaveService.ListByStatus(c.Request.Context(), status, params.Page, params.Limit)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"leave_requests": requests,
		"total":          total,
		"page":           params.Page,
		"limit":          params.Limit,
	}))
}

// ListByEmployee handles GET /employees/:id/leave-requests
func (h *LeaveHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	params := pagination.Parse(c)

	requests, total, err := h.leaveService.ListByEmployee(c.Request.Context(), employeeID, params.Page, params.Limit)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"leave_requests": requests,
		"total":          total,
		"page":           params.Page,
		"limit":          params.Limit,
	}))
}

// ListBalances handles GET /employees/:id/leave-balances?year=2024
// @Summary      List leave balances for an employee
// @Tags         leave
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Employee ID"
// @Param        year  query     int     false  "Ledger year (0 for all years)"
// @Success      200   {object}  response.Response{data=[]model.LeaveBalance}
// @Router       /employees/{id}/leave-balances [get]
func (h *LeaveHandler) ListBalances(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year"))
			return
		}
		year = parsed
	}

	balances, err := h.balanceService.ListByEmployee(c.Request.Context(), employeeID, year)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, balances))
}

// AllocateBalance handles POST /leave-balances
// @Summary      Grant leave balance
// @Description  Adds allocated hours to the (employee, business unit, year, type) ledger row
// @Tags         leave
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      handler.AllocateBalanceRequest  true  "Allocation Payload"
// @Success      200      {object}  response.Response{data=model.LeaveBalance}
// @Failure      422      {object}  response.Response
// @Router       /leave-balances [post]
func (h *LeaveHandler) AllocateBalance(c *gin.Context) {
	var req AllocateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid employee id"))
		return
	}
	unitID, err := uuid.Parse(req.BusinessUnitID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid business unit id"))
		return
	}

	key := repository.BalanceKey{
		EmployeeID:     employeeID,
		BusinessUnitID: unitID,
		Year:           req.Year,
		LeaveType:      req.LeaveType,
	}
	balance, err := h.balanceService.Allocate(c.Request.Context(), key, req.Hours, actorID(c))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, balance))
}
