package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/service"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler - HTTP handlers for /api/books
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog on rg (usually /api/books).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListBooks)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/export", h.ExportBooks)
	rg.GET("/:id", h.GetBook)
	rg.POST("", h.CreateBook)
	rg.PUT("/:id", h.UpdateBook)
	rg.DELETE("/:id", h.DeleteBook)
}

// ListBooks - GET /api/books?page=1&pageSize=5&category=Fiction
// Responds {"books": [...], "totalBooks": n}.
func (h *Handler) ListBooks(c *gin.Context) {
	q, err := parsePageQuery(c)
	if model.HandleBookError(c, err) {
		return
	}

	result, err := h.service.Query(c.Request.Context(), q)
	if model.HandleBookError(c, err) {
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// parsePageQuery applies the defaults (page 1, pageSize 5) and caps pageSize.
func parsePageQuery(c *gin.Context) (model.PageQuery, error) {
	q := model.PageQuery{
		Page:     model.DefaultPage,
		PageSize: model.DefaultPageSize,
		Category: c.Query("category"),
	}

	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return q, model.NewFieldError("page", model.ErrInvalidPage)
		}
		q.Page = p
	}
	if raw := strings.TrimSpace(c.Query("pageSize")); raw != "" {
		ps, err := strconv.Atoi(raw)
		if err != nil {
			return q, model.NewFieldError("pageSize", model.ErrInvalidPageSize)
		}
		q.PageSize = ps
	}
	if q.PageSize > model.MaxPageSize {
		q.PageSize = model.MaxPageSize
	}
	return q, nil
}

// ListCategories - GET /api/books/categories
// Responds with a bare JSON array; the "All" choice is added by clients.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

// GetBook - GET /api/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	response.JSON(c, http.StatusOK, b)
}

// CreateBook - POST /api/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("[Handler] Invalid create book body")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	b, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", strings.TrimSuffix(c.FullPath(), "/"), b.BookID))
	response.JSON(c, http.StatusCreated, b)
}

// UpdateBook - PUT /api/books/:id (full replace)
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	b, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}
	response.JSON(c, http.StatusOK, b)
}

// DeleteBook - DELETE /api/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if model.HandleBookError(c, h.service.DeleteBook(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportBooks - GET /api/books/export?category=Fiction
// The workbook is built in memory so a failure can still answer with JSON.
func (h *Handler) ExportBooks(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.service.ExportBooks(c.Request.Context(), c.Query("category"), &buf)
	if model.HandleBookError(c, err) {
		return
	}

	filename := "books-"
	if slug := utils.GenerateSlug(model.PageQuery{Category: c.Query("category")}.CategoryFilter()); slug != "" {
		filename += slug + "-"
	}
	filename += time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	log.Info().Int("rows", n).Str("category", c.Query("category")).Msg("[Handler] Books exported")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// bookID parses :id, writing a 400 when it is not a positive integer.
func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		model.HandleBookError(c, model.ErrInvalidBookID)
		return 0, false
	}
	return id, true
}
