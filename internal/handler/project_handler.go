package handler

import (
	"net/http"

	"peopleops/internal/middleware"
	"peopleops/internal/model"
	"peopleops/internal/service"
	"peopleops/pkg/pagination"
	"peopleops/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttachCalendarRequest struct {
	HolidayCalendarID string `json:"holiday_calendar_id" binding:"required"`
}

type ProjectHandler struct {
	projectService    service.ProjectService
	allocationService service.AllocationService
}

func NewProjectHandler(projectService service.ProjectService, allocationService service.AllocationService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, allocationService: allocationService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	admin := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	projects := router.Group("/projects")
	{
		projects.POST("", admin, h.CreateProject)
		projects.GET("", anyRole, h.ListProjects)
		projects.GET("/:id", anyRole, h.GetProject)
		projects.PUT("/:id/calendar", admin, h.AttachCalendar)

		projects.POST("/:id/members", admin, h.AddMember)
		projects.GET("/:id/members", anyRole, h.ListMembers)

		projects.POST("/:id/wbs-elements", admin, h.CreateWBSElement)
		projects.GET("/:id/wbs-elements", anyRole, h.ListWBSElements)
	}

	router.POST("/members/:id/deactivate", admin, h.DeactivateMember)
	router.POST("/wbs-elements/:id/disable", admin, h.DisableWBSElement)

	allocations := router.Group("/allocations")
	{
		allocations.POST("", admin, h.CreateAllocation)
		allocations.POST("/:id/deactivate", admin, h.DeactivateAllocation)
	}
	router.GET("/members/:id/allocations", anyRole, h.ListAllocations)
}

// CreateProject handles POST /projects
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProjectRequest  true  "Project Payload"
// @Success      201      {object}  response.Response{data=model.Project}
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := pagination.Parse(c)

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// AttachCalendar handles PUT /projects/:id/calendar
// @Summary      Attach a holiday calendar to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Project ID"
// @Param        payload  body      handler.AttachCalendarRequest  true  "Calendar Payload"
// @Success      200      {object}  response.Response{data=model.Project}
// @Failure      404      {object}  response.Response
// @Router       /projects/{id}/calendar [put]
func (h *ProjectHandler) AttachCalendar(c *gin.Context) {
	var req AttachCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	project, err := h.projectService.AttachCalendar(c.Request.Context(), c.Param("id"), req.HolidayCalendarID)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// AddMember handles POST /projects/:id/members
// @Summary      Add a project member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Project ID"
// @Param        payload  body      service.AddMemberRequest  true  "Member Payload"
// @Success      201      {object}  response.Response{data=model.ProjectMember}
// @Failure      409      {object}  response.Response
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req service.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.projectService.AddMember(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, member))
}

// DeactivateMember handles POST /members/:id/deactivate
func (h *ProjectHandler) DeactivateMember(c *gin.Context) {
	member, err := h.projectService.DeactivateMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// ListMembers handles GET /projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	members, err := h.projectService.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, members))
}

// CreateWBSElement handles POST /projects/:id/wbs-elements
// @Summary      Create a WBS element
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Project ID"
// @Param        payload  body      service.CreateWBSElementRequest  true  "WBS Element Payload"
// @Success      201      {object}  response.Response{data=model.WBSElement}
// @Failure      409      {object}  response.Response
// @Router       /projects/{id}/wbs-elements [post]
func (h *ProjectHandler) CreateWBSElement(c *gin.Context) {
	var req service.CreateWBSElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	element, err := h.projectService.CreateWBSElement(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, element))
}

// ListWBSElements handles GET /projects/:id/wbs-elements
func (h *ProjectHandler) ListWBSElements(c *gin.Context) {
	elements, err := h.projectService.ListWBSElements(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, elements))
}

// DisableWBSElement handles POST /wbs-elements/:id/disable
func (h *ProjectHandler) DisableWBSElement(c *gin.Context) {
	element, err := h.projectService.DisableWBSElement(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, element))
}

// CreateAllocation handles POST /allocations
// @Summary      Create a WBS allocation
// @Description  Binds a project member to a WBS element for a date window after cross-project and window checks
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAllocationRequest  true  "Allocation Payload"
// @Success      201      {object}  response.Response{data=model.WBSAllocation}
// @Failure      409      {object}  response.Response
// @Router       /allocations [post]
func (h *ProjectHandler) CreateAllocation(c *gin.Context) {
	var req service.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	allocation, err := h.allocationService.CreateAllocation(c.Request.Context(), req, actorID(c))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, allocation))
}

// DeactivateAllocation handles POST /allocations/:id/deactivate
func (h *ProjectHandler) DeactivateAllocation(c *gin.Context) {
	allocation, err := h.allocationService.DeactivateAllocation(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, allocation))
}

// ListAllocations handles GET /members/:id/allocations
func (h *ProjectHandler) ListAllocations(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid member id"))
		return
	}

	allocations, err := h.allocationService.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(response.StatusOf(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, allocations))
}
