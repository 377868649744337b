package handler

import (
	"net/http"

	"peopleops/internal/middleware"
	"peopleops/internal/model"
	"peopleops/internal/service"
	"peopleops/pkg/pagination"
	"peopleops/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	admin := middleware.RequireRole(model.RoleAdmin)

	units := router.Group("/business-units")
	{
		units.POST("", admin, h.CreateBusinessUnit)
		units.GET("", anyRole, h.ListBusinessUnits)
	}

	employees := router.Group("/employees")
	{
		employees.POST("", admin, h.CreateEmployee)
		employees.GET("", anyRole, h.ListEmployees)
		employees.GET("/:id", anyRole, h.GetEmployee)
		employees.PUT("/:id", admin, h.UpdateEmployee)
	}
}

// CreateBusinessUnit handles POST /business-units
// @Summary      Create a business unit
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBusinessUnitRequest  true  "Business Unit Payload"
// @Success      201      {object}  response.Response{data=model.BusinessUnit}
// @Router       /business-units [post]
func (h *EmployeeHandler) CreateBusinessUnit(c *gin.Context) {
	var req service.CreateBusinessUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.employeeService.CreateBusinessUnit(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// ListBusinessUnits handles GET /business-units
func (h *EmployeeHandler) ListBusinessUnits(c *gin.Context) {
	units, err := h.employeeService.ListBusinessUnits(c.Request.Context())
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// CreateEmployee handles POST /employees
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Router       /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// GetEmployee handles GET /employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// ListEmployees handles GET /employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	params := pagination.Parse(c)

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"employees": employees,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// UpdateEmployee handles PUT /employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}
