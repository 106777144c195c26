package api

import (
	"errors"
	"net/http"

	"cardstatx/internal/cache"
	"cardstatx/internal/services"
	"cardstatx/internal/store"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	store      *store.Store
	aggregator *services.Aggregator
	avgCache   *cache.AveragesCache
}

func SetupRoutes(r *gin.RouterGroup, st *store.Store, agg *services.Aggregator, avgCache *cache.AveragesCache) *APIHandler {
	handler := &APIHandler{
		store:      st,
		aggregator: agg,
		avgCache:   avgCache,
	}

	cards := r.Group("/cards")
	{
		cards.GET("", handler.ListCards)
		cards.GET("/:id/stats/average", handler.GetCardAverages)
	}

	return handler
}

// ListCards returns every tracked card as {id: name}.
func (h *APIHandler) ListCards(c *gin.Context) {
	cards, err := h.store.ListCards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cards"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetCardAverages returns the trailing week/month/year price averages
// for one card, read-through cached when Redis is configured.
func (h *APIHandler) GetCardAverages(c *gin.Context) {
	cardID := c.Param("id")

	if averages, ok := h.avgCache.Get(c.Request.Context(), cardID); ok {
		c.JSON(http.StatusOK, averages)
		return
	}

	averages, err := h.aggregator.AveragesFor(cardID)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute averages"})
		return
	}

	h.avgCache.Set(c.Request.Context(), cardID, averages)
	c.JSON(http.StatusOK, averages)
}
