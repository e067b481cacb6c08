package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

const auditLogDefaultLimit = 100

func (h *AuditLogsHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	limit := auditLogDefaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			httperr.BadRequest(c, "invalid_limit", "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	q := h.db.Where("salon_id = ?", salonID)
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list audit logs")
		return
	}

	httpresp.List(c, logs)
}
