package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShowReport renders the enriched click table for one short link. A
// failure to read the click log yields an empty body, not an error
// page; per-row lookup failures already degrade inside the enricher.
func (h *Handler) ShowReport(c *gin.Context) {
	shortCode := c.Param("short_code")

	records, err := h.clicks.RecentClicks(shortCode)
	if err != nil {
		h.logger.Error("Failed to read click log", "short_code", shortCode, "error", err)
		c.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}

	rows := h.enricher.EnrichBatch(c.Request.Context(), records, c.ClientIP())

	out, err := h.renderer.Render(rows)
	if err != nil {
		h.logger.Error("Failed to render report", "short_code", shortCode, "error", err)
		c.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}
