package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/sheet-catalog/app/catalog"
	"github.com/lysyi3m/sheet-catalog/app/render"
)

func NewHandler(store *catalog.Store, scheduler Reloader, cards render.CardOptions, channel render.Channel) *Handler {
	return &Handler{
		store:     store,
		scheduler: scheduler,
		generator: render.NewGenerator(),
		cards:     cards,
		channel:   channel,
	}
}

func filterFromQuery(c *gin.Context) catalog.Filter {
	return catalog.Filter{
		Keyword:  c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
}

func (h *Handler) GetItems(c *gin.Context) {
	snap := h.store.Snapshot()
	records := catalog.Query(snap.Records, filterFromQuery(c))

	resp := ItemsResponse{
		Items: render.NewCards(records, h.cards),
		Count: len(records),
		Total: len(snap.Records),
	}
	if len(snap.Records) == 0 {
		resp.Error = h.store.Status().LastError
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetFilters(c *gin.Context) {
	snap := h.store.Snapshot()

	resp := FiltersResponse{
		Categories: snap.Categories,
		Statuses:   snap.Statuses,
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	if resp.Statuses == nil {
		resp.Statuses = []string{}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetFeed(c *gin.Context) {
	snap := h.store.Snapshot()
	records := catalog.Query(snap.Records, filterFromQuery(c))

	rss, err := h.generator.Run(h.channel, records)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(records)))
	if snap.Seq > 0 {
		c.Header("X-Last-Updated", snap.LoadedAt.Format(time.RFC3339))
	}

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	status := h.store.Status()

	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"loaded":    status.Loaded,
		"records":   status.Records,
		"in_flight": status.InFlight,
		"load_seq":  h.store.Snapshot().Seq,
	}

	if status.LoadedAt != nil {
		health["loaded_at"] = status.LoadedAt.In(time.Local).Format(time.RFC3339)
	}
	if status.LastAttemptAt != nil {
		health["last_attempt_at"] = status.LastAttemptAt.In(time.Local).Format(time.RFC3339)
	}
	if status.LastError != "" {
		health["error"] = status.LastError
	}

	code := http.StatusOK
	if !status.Loaded && status.LastError != "" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, health)
}

func (h *Handler) APIReload(c *gin.Context) {
	id, err := h.scheduler.Reload()
	if err != nil {
		slog.Error("Failed to enqueue catalog reload", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue reload", "message": err.Error()})
		return
	}

	slog.Info("Catalog reload enqueued via API", "task_id", id)

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"task_id": id,
	})
}
