package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"reimburse-backend/internal/middleware"
	"reimburse-backend/internal/model"
	"reimburse-backend/internal/service"
	"reimburse-backend/pkg/pagination"
	"reimburse-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReimbursementHandler struct {
	reimbursementService service.ReimbursementService
}

func NewReimbursementHandler(reimbursementService service.ReimbursementService) *ReimbursementHandler {
	return &ReimbursementHandler{reimbursementService: reimbursementService}
}

func (h *ReimbursementHandler) RegisterRoutes(router *gin.RouterGroup) {
	reimbursements := router.Group("/api/reimbursements")
	{
		reimbursements.POST("", middleware.RequireRole(model.RoleEmployee), h.Submit)
		reimbursements.GET("/history", middleware.RequireRole(model.RoleEmployee), h.History)
		reimbursements.GET("", middleware.RequireRole(model.RoleManager), h.ListByManager)
		reimbursements.GET("/all", middleware.RequireRole(model.RoleAdmin), h.ListAll)
		reimbursements.PUT("/:id/approve", middleware.RequireRole(model.RoleManager), h.Approve)
		reimbursements.PUT("/:id/reject", middleware.RequireRole(model.RoleManager), h.Reject)
	}

	documents := router.Group("/api/documents")
	documents.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee))
	{
		documents.GET("/:id/download", h.DownloadDocument)
	}
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

// Submit handles the employee's multipart reimbursement submission
// @Summary      Submit a reimbursement request
// @Description  Validates the amount against the request type limit and stores the supporting document atomically with the request
// @Tags         reimbursements
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        request_type_id  formData  string  true  "Request type ID"
// @Param        amount           formData  number  true  "Claimed amount"
// @Param        request_date     formData  string  true  "Expense date (YYYY-MM-DD)"
// @Param        document         formData  file    true  "Supporting document"
// @Success      201              {object}  response.Response{data=service.ReimbursementResponse}
// @Failure      400              {object}  response.Response
// @Router       /api/reimbursements [post]
func (h *ReimbursementHandler) Submit(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
		return
	}

	requestTypeID, err := uuid.Parse(c.PostForm("request_type_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request type"))
		return
	}

	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid amount"))
		return
	}

	requestDate, err := time.Parse("2006-01-02", c.PostForm("request_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request date, expected YYYY-MM-DD"))
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "a supporting document is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read uploaded document"))
		return
	}
	defer file.Close()

	result, err := h.reimbursementService.Submit(c.Request.Context(), service.SubmitReimbursementInput{
		EmployeeID:    employeeID,
		RequestTypeID: requestTypeID,
		Amount:        amount,
		RequestDate:   requestDate,
		FileName:      fileHeader.Filename,
		File:          file,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// History returns the acting employee's own submissions
func (h *ReimbursementHandler) History(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
		return
	}

	requests, err := h.reimbursementService.History(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListByManager returns requests bound to the acting manager in a given state
// @Summary      List requests assigned to the acting manager
// @Tags         reimbursements
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  true   "pending, approved, or rejected"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/reimbursements [get]
func (h *ReimbursementHandler) ListByManager(c *gin.Context) {
	managerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
		return
	}

	status := c.DefaultQuery("status", model.RequestPending)
	params := pagination.Parse(c)

	requests, total, err := h.reimbursementService.ListByManager(c.Request.Context(), managerID, status, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListAll backs the admin tracking view
func (h *ReimbursementHandler) ListAll(c *gin.Context) {
	params := pagination.Parse(c)

	requests, total, err := h.reimbursementService.ListAll(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// Approve transitions a pending request to approved
// @Summary      Approve a reimbursement request
// @Description  Only the manager captured at submission time may approve; re-approving is a no-op
// @Tags         reimbursements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string           true   "Request ID"
// @Param        payload  body      decisionRequest  false  "Approval comment"
// @Success      200      {object}  response.Response{data=service.ReimbursementResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/reimbursements/{id}/approve [put]
func (h *ReimbursementHandler) Approve(c *gin.Context) {
	h.decide(c, h.reimbursementService.Approve)
}

// Reject transitions a pending request to rejected
func (h *ReimbursementHandler) Reject(c *gin.Context) {
	h.decide(c, h.reimbursementService.Reject)
}

func (h *ReimbursementHandler) decide(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, managerID uuid.UUID, comments string) (*service.ReimbursementResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	managerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — comments are optional
		req.Comments = ""
	}

	result, err := fn(c.Request.Context(), id, managerID, req.Comments)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DownloadDocument streams a stored supporting document to its owner,
// bound manager, or an admin
func (h *ReimbursementHandler) DownloadDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid document id"))
		return
	}

	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
		return
	}
	actorRole := c.GetString(middleware.CtxUserRole)

	reader, filename, err := h.reimbursementService.OpenDocument(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	_, _ = io.Copy(c.Writer, reader)
}
