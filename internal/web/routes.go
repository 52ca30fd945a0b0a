package web

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/roadmap/internal/codec"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/reorder"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/gin-gonic/gin"
)

func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/roadmap.md", h.markdown)

	api := router.Group("/api")
	{
		api.GET("/roadmap", h.getRoadmap)
		api.GET("/status", h.status)
		api.GET("/filter", h.filter)
		api.POST("/save", h.save)
		api.POST("/phases/reorder", h.reorderPhases)
		api.POST("/items/reorder", h.reorderItems)
		api.POST("/items/:id/move", h.moveItem)
		api.PATCH("/items/:id", h.updateItem)
	}
}

type handlers struct {
	roadmap service.RoadmapService
}

type phaseJSON struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Color string         `json:"color,omitempty"`
	Done  int            `json:"done"`
	Total int            `json:"total"`
	Items []*domain.Item `json:"items"`
}

func (h *handlers) getRoadmap(c *gin.Context) {
	doc := h.roadmap.Document()
	settings := h.roadmap.Settings()
	title := doc.Title
	if settings.Title != "" {
		title = settings.Title
	}

	phases := make([]phaseJSON, 0, len(doc.Phases))
	for _, key := range doc.OrderedPhaseKeys() {
		items := doc.Phases[key]
		t := domain.PhaseTally(items, settings.Columns)
		phases = append(phases, phaseJSON{
			Key:   key,
			Name:  codec.PhaseName(key, settings.Phases, doc),
			Color: settings.Phases[key].Color,
			Done:  t.Done,
			Total: t.Total,
			Items: items,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"title":   title,
		"columns": settings.Columns,
		"phases":  phases,
		"aux":     doc.Aux,
	})
}

func (h *handlers) markdown(c *gin.Context) {
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.roadmap.Markdown()))
}

func (h *handlers) status(c *gin.Context) {
	report, err := h.roadmap.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	phases := make([]gin.H, 0, len(report.Phases))
	for _, p := range report.Phases {
		phases = append(phases, gin.H{
			"key": p.Key, "name": p.Name, "done": p.Tally.Done, "total": p.Tally.Total, "subtasks": p.Subtasks,
		})
	}
	columns := make([]gin.H, 0, len(report.Columns))
	for _, ct := range report.Columns {
		columns = append(columns, gin.H{"key": ct.Column.Key, "label": ct.Column.Label, "done": ct.Done, "total": ct.Total})
	}
	body := gin.H{
		"title":   report.Title,
		"phases":  phases,
		"columns": columns,
		"done":    report.Overall.Done,
		"total":   report.Overall.Total,
		"pending": report.Pending,
	}
	if report.LastSave != nil {
		body["last_save"] = report.LastSave.SavedAt
	}
	c.JSON(http.StatusOK, body)
}

// filter applies the board filter. While a query is set every reorder
// route answers 409.
func (h *handlers) filter(c *gin.Context) {
	matches := h.roadmap.SetFilter(c.Query("q"))
	out := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		out = append(out, gin.H{"phase": m.Phase, "id": m.ItemID, "title": m.Title, "depth": m.Depth, "matched": m.Indexes})
	}
	c.JSON(http.StatusOK, gin.H{"matches": out, "count": len(out)})
}

func (h *handlers) save(c *gin.Context) {
	if err := h.roadmap.Save(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type reorderPhasesRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

func (h *handlers) reorderPhases(c *gin.Context) {
	var req reorderPhasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	var ok bool
	h.roadmap.Reorder(func(e *reorder.Engine) { ok = e.ReorderPhases(req.From, req.To) })
	respondReorder(c, ok)
}

type reorderItemsRequest struct {
	Phase string `json:"phase" binding:"required"`
	From  *int   `json:"from" binding:"required"`
	To    *int   `json:"to" binding:"required"`
}

func (h *handlers) reorderItems(c *gin.Context) {
	var req reorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	var ok bool
	h.roadmap.Reorder(func(e *reorder.Engine) { ok = e.ReorderItems(req.Phase, *req.From, *req.To) })
	respondReorder(c, ok)
}

type moveItemRequest struct {
	Phase string `json:"phase"`
	Index *int   `json:"index"`
	Delta int    `json:"delta"`
}

// moveItem shifts an item among its siblings (delta) or transfers a root
// item to another phase (phase, optional index; default last).
func (h *handlers) moveItem(c *gin.Context) {
	var req moveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if _, ok := h.roadmap.Document().Locate(id); !ok {
		respondError(c, domain.ErrItemNotFound)
		return
	}

	var ok bool
	switch {
	case req.Delta != 0 && req.Phase == "":
		h.roadmap.Reorder(func(e *reorder.Engine) { ok = e.Shift(id, req.Delta) })
	case req.Phase != "" && req.Delta == 0:
		index := -1
		if req.Index != nil {
			index = *req.Index
		}
		h.roadmap.Reorder(func(e *reorder.Engine) { ok = e.TransferItem(id, req.Phase, index) })
	default:
		respondBadRequest(c, "exactly one of phase or delta is required")
		return
	}
	respondReorder(c, ok)
}

type updateItemRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

func (h *handlers) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	for key, value := range req.Fields {
		if err := h.roadmap.SetField(c.Request.Context(), id, key, value); err != nil {
			respondError(c, err)
			return
		}
	}
	loc, ok := h.roadmap.Document().Locate(id)
	if !ok {
		respondError(c, domain.ErrItemNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": loc.Item})
}

func respondReorder(c *gin.Context, ok bool) {
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "reorder refused"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrPhaseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrUnknownColumn),
		errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrLockedColumn):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
