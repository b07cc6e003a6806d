package handler

import (
	"net/http"
	"time"

	"santri_portal/internal/hijri"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// CalendarHandler serves Gregorian and Hijri labels for a day
type CalendarHandler struct {
	converter hijri.Converter
	now       func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(conv hijri.Converter) *CalendarHandler {
	return &CalendarHandler{converter: conv, now: time.Now}
}

// Day converts ?date=YYYY-MM-DD, or today in the display timezone
func (h *CalendarHandler) Day(c *gin.Context) {
	day := h.now().In(h.converter.Location())

	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, h.converter.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      day.Format(dateLayout),
		"gregorian": h.converter.Gregorian(day),
		"hijri":     h.converter.Convert(day),
		"timezone":  h.converter.Location().String(),
	})
}

// Normalize rewrites an Arabic Hijri label into the Latin form
func (h *CalendarHandler) Normalize(c *gin.Context) {
	var req struct {
		Label string `json:"label" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"label": hijri.NormalizeHijriLabel(req.Label)})
}

func (h *CalendarHandler) RegisterCalendarRoutes(rg *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	calendarGroup := rg.Group("/calendar")
	calendarGroup.Use(sessionMW)
	{
		calendarGroup.GET("", h.Day)
		calendarGroup.POST("/normalize", h.Normalize)
	}
}
