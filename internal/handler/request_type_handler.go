package handler

import (
	"net/http"

	"reimburse-backend/internal/middleware"
	"reimburse-backend/internal/model"
	"reimburse-backend/internal/service"
	"reimburse-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequestTypeHandler struct {
	requestTypeService service.RequestTypeService
}

func NewRequestTypeHandler(requestTypeService service.RequestTypeService) *RequestTypeHandler {
	return &RequestTypeHandler{requestTypeService: requestTypeService}
}

func (h *RequestTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Employees read the type list on the submission form.
	router.GET("/api/request-types",
		middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee), h.List)

	types := router.Group("/api/request-types")
	types.Use(middleware.RequireRole(model.RoleAdmin))
	{
		types.POST("", h.Create)
		types.PUT("/:id", h.Update)
		types.DELETE("/:id", h.Delete)
	}
}

// List returns all reimbursement categories with their limits
func (h *RequestTypeHandler) List(c *gin.Context) {
	types, err := h.requestTypeService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}

// Create adds a reimbursement category
// @Summary      Create a request type
// @Tags         request-types
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RequestTypeRequest  true  "Request Type Payload"
// @Success      201      {object}  response.Response{data=service.RequestTypeResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/request-types [post]
func (h *RequestTypeHandler) Create(c *gin.Context) {
	var req service.RequestTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	requestType, err := h.requestTypeService.Create(c.Request.Context(), req, actorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requestType))
}

// Update changes a category's name or limit; existing requests keep the
// limit they were validated against
func (h *RequestTypeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request type id"))
		return
	}

	var req service.RequestTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	requestType, err := h.requestTypeService.Update(c.Request.Context(), id, req, actorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requestType))
}

// Delete removes a category
func (h *RequestTypeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request type id"))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := h.requestTypeService.Delete(c.Request.Context(), id, actorID); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "request type deleted"}))
}
