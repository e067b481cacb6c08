package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/finance"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type serviceCreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"`
	Category    string          `json:"category"`
	Commission  *float64        `json:"commission"`
	IsActive    *bool           `json:"isActive"`
}

type serviceUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Category    *string          `json:"category"`
	Commission  *float64         `json:"commission"`
	IsActive    *bool            `json:"isActive"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ?", like)
	}

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req serviceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !req.Price.IsPositive() {
		httperr.BadRequest(c, "invalid_price", "price must be greater than zero")
		return
	}
	if req.Duration <= 0 {
		httperr.BadRequest(c, "invalid_duration", "duration must be greater than zero")
		return
	}

	commission := 0.0
	if req.Commission != nil {
		commission = *req.Commission
	}
	if !finance.ValidRate(commission) {
		httperr.BadRequest(c, "invalid_commission", "commission must be between 0 and 100")
		return
	}

	category := req.Category
	if category == "" {
		category = "Geral"
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	svc := models.Service{
		SalonID:     salonID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    category,
		Commission:  commission,
		IsActive:    isActive,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to create service")
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, ok := h.loadScoped(c)
	if !ok {
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.loadScoped(c)
	if !ok {
		return
	}

	var req serviceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Price != nil && !req.Price.IsPositive() {
		httperr.BadRequest(c, "invalid_price", "price must be greater than zero")
		return
	}
	if req.Duration != nil && *req.Duration <= 0 {
		httperr.BadRequest(c, "invalid_duration", "duration must be greater than zero")
		return
	}
	if req.Commission != nil && !finance.ValidRate(*req.Commission) {
		httperr.BadRequest(c, "invalid_commission", "commission must be between 0 and 100")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Commission != nil {
		svc.Commission = *req.Commission
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.Save(svc).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update service")
		return
	}

	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	svc, ok := h.loadScoped(c)
	if !ok {
		return
	}

	if err := h.db.Delete(svc).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete service")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

func (h *ServiceHandler) loadScoped(c *gin.Context) (*models.Service, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid service id")
		return nil, false
	}

	var svc models.Service
	if err := h.db.Where("id = ?", id).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "service not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load service")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), svc.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "service belongs to another salon")
		return nil, false
	}

	return &svc, true
}
