// Package handlers provides HTTP API request handlers.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SakshamChouhan/file-to-drive/internal/document"
	"github.com/SakshamChouhan/file-to-drive/internal/model"
	"github.com/SakshamChouhan/file-to-drive/internal/user"
)

// DocumentHandler handles HTTP requests for document management.
type DocumentHandler struct {
	service *document.Service
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service *document.Service) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// CreateDocumentRequest represents the request body for creating a document.
type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Preview   string `json:"preview,omitempty"`
	DriveID   string `json:"driveId,omitempty"`
	IsInDrive bool   `json:"isInDrive"`
	LastSaved string `json:"lastSaved"`
	CreatedAt string `json:"createdAt"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toDocumentResponse converts a model.Document to DocumentResponse.
func toDocumentResponse(d *model.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Preview:   d.Preview(),
		DriveID:   d.DriveID,
		IsInDrive: d.IsInDrive,
		LastSaved: d.LastSaved.Format(time.RFC3339),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

// getUserID extracts the user ID from the request context.
// In a real deployment this comes from the OAuth session middleware.
func getUserID(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	// Default user for development/testing; provisioned at startup
	return user.DefaultID
}

// sendError sends an error response with the appropriate status code.
func sendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// sendDocumentError maps service-layer errors onto HTTP responses.
func sendDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrDocumentNotFound):
		sendError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	case errors.Is(err, model.ErrForbidden):
		sendError(c, http.StatusForbidden, "FORBIDDEN", "Access to document denied")
	case errors.Is(err, model.ErrEmptyUpdate):
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Update contains no fields")
	case errors.Is(err, model.ErrDocumentLimit):
		sendError(c, http.StatusConflict, "DOCUMENT_LIMIT", "Document limit reached")
	default:
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// Create handles POST /api/documents - creates a new document.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	doc, err := h.service.Create(c.Request.Context(), &model.CreateDocumentRequest{
		Title:   req.Title,
		Content: req.Content,
		UserID:  getUserID(c),
	})
	if err != nil {
		sendDocumentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// List handles GET /api/documents - lists the current user's documents.
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context(), getUserID(c))
	if err != nil {
		sendDocumentError(c, err)
		return
	}

	responses := make([]*DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, toDocumentResponse(d))
	}

	c.JSON(http.StatusOK, responses)
}

// Get handles GET /api/documents/:id - retrieves a single document.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		sendDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// Update handles PUT /api/documents/:id - applies a partial update.
func (h *DocumentHandler) Update(c *gin.Context) {
	var req model.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error())
		return
	}

	doc, err := h.service.Update(c.Request.Context(), c.Param("id"), getUserID(c), &req)
	if err != nil {
		sendDocumentError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// Delete handles DELETE /api/documents/:id - deletes a document.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), getUserID(c)); err != nil {
		sendDocumentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the document handler routes on a Gin router group.
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.List)
	rg.POST("/documents", h.Create)
	rg.GET("/documents/:id", h.Get)
	rg.PUT("/documents/:id", h.Update)
	rg.DELETE("/documents/:id", h.Delete)
}
