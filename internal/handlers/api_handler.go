package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cast_manager/internal/models"
	"cast_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	recalcService    services.RecalcService
	reportService    services.ReportService
	settingsService  services.SettingsService
	castService      services.CastService
	promotionService services.PromotionService
}

func NewAPIHandler(
	recalcService services.RecalcService,
	reportService services.ReportService,
	settingsService services.SettingsService,
	castService services.CastService,
	promotionService services.PromotionService,
) *APIHandler {
	return &APIHandler{
		recalcService:    recalcService,
		reportService:    reportService,
		settingsService:  settingsService,
		castService:      castService,
		promotionService: promotionService,
	}
}

// Recalculation endpoints
func (h *APIHandler) Recalculate(c *gin.Context) {
	var req struct {
		StoreID uint   `json:"store_id" binding:"required"`
		Date    string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	result := h.recalcService.RecalculateDaily(req.StoreID, date)
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Error == services.RecalcBusyMessage {
			status = http.StatusConflict
		}
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Daily report endpoints
func (h *APIHandler) GetDailyStats(c *gin.Context) {
	storeID, date, ok := h.storeAndDate(c)
	if !ok {
		return
	}
	stats, err := h.reportService.GetDailyStats(storeID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily stats"})
		return
	}

	// The rows carry both views; tell the client which one the store publishes.
	published := models.PublishItemBased
	if settings, err := h.settingsService.GetSettings(storeID); err == nil {
		published = settings.PublishedAggregation
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":                 stats,
		"published_aggregation": published,
	})
}

func (h *APIHandler) GetDailyItems(c *gin.Context) {
	storeID, date, ok := h.storeAndDate(c)
	if !ok {
		return
	}
	if castParam := c.Query("cast_id"); castParam != "" {
		castID, err := strconv.ParseUint(castParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cast_id"})
			return
		}
		items, err := h.reportService.GetDailyItemsByCast(storeID, date, uint(castID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily items"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}
	items, err := h.reportService.GetDailyItems(storeID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Settings endpoints
func (h *APIHandler) GetSettings(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	settings, err := h.settingsService.GetSettings(storeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *APIHandler) UpdateSettings(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	var settings models.SalesSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	settings.StoreID = storeID
	if err := h.settingsService.UpdateSettings(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Cast roster endpoints
func (h *APIHandler) GetCasts(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	casts, err := h.castService.GetCasts(storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load casts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"casts": casts})
}

func (h *APIHandler) CreateCast(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	var cast models.Cast
	if err := c.ShouldBindJSON(&cast); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	cast.StoreID = storeID
	if err := h.castService.CreateCast(&cast); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cast)
}

// Promotion endpoints
func (h *APIHandler) GetPromotions(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	promotions, err := h.promotionService.GetPromotions(storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load promotions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

func (h *APIHandler) CreatePromotion(c *gin.Context) {
	var promotion models.EventPromotion
	if err := c.ShouldBindJSON(&promotion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.promotionService.CreatePromotion(&promotion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, promotion)
}

func (h *APIHandler) EvaluatePromotion(c *gin.Context) {
	promotionID, err := strconv.ParseUint(c.Param("promotion_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion id"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	achievements, stats, err := h.promotionService.EvaluateDay(uint(promotionID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate promotion"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"achievements": achievements,
		"stats":        stats,
	})
}

func (h *APIHandler) storeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("store_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return 0, false
	}
	return uint(id), true
}

func (h *APIHandler) storeAndDate(c *gin.Context) (uint, time.Time, bool) {
	storeID, ok := h.storeID(c)
	if !ok {
		return 0, time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return 0, time.Time{}, false
	}
	return storeID, date, true
}
