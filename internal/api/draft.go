package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealsnap/backend/internal/service"
)

// DraftHandler serves manual-entry draft sheets
type DraftHandler struct {
	drafts *service.DraftService
}

// NewDraftHandler creates a new DraftHandler instance
func NewDraftHandler(drafts *service.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/meals/:id/drafts", h.CreateDraft)

	drafts := router.Group("/drafts")
	{
		drafts.GET("/:id", h.GetDraft)
		drafts.DELETE("/:id", h.DiscardDraft)
		drafts.POST("/:id/save", h.SaveDraft)
		drafts.POST("/:id/rows", h.AddRow)
		drafts.PUT("/:id/rows/:row", h.UpdateRow)
		drafts.DELETE("/:id/rows/:row", h.RemoveRow)
	}
}

// UpdateRowRequest sets one field, or several through Fields
type UpdateRowRequest struct {
	Field  string            `json:"field"`
	Value  string            `json:"value"`
	Fields map[string]string `json:"fields"`
}

func (h *DraftHandler) CreateDraft(c *gin.Context) {
	view, err := h.drafts.Create(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	view, err := h.drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) AddRow(c *gin.Context) {
	view, err := h.drafts.AddRow(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *DraftHandler) UpdateRow(c *gin.Context) {
	row, ok := rowParam(c)
	if !ok {
		return
	}

	var req UpdateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := req.Fields
	if fields == nil {
		fields = make(map[string]string)
	}
	if req.Field != "" {
		fields[req.Field] = req.Value
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}

	view, err := h.drafts.SetFields(c.Param("id"), row, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) RemoveRow(c *gin.Context) {
	row, ok := rowParam(c)
	if !ok {
		return
	}

	view, err := h.drafts.RemoveRow(c.Param("id"), row)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) SaveDraft(c *gin.Context) {
	meal, err := h.drafts.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.drafts.Discard(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func rowParam(c *gin.Context) (int, bool) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row must be an integer"})
		return 0, false
	}
	return row, true
}
