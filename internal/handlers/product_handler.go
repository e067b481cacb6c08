package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
)

type ProductHandler struct {
	db *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productCreateRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	Price       decimal.Decimal  `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Stock       *int             `json:"stock"`
	MinStock    *int             `json:"minStock"`
	Unit        string           `json:"unit"`
	Barcode     string           `json:"barcode"`
	IsActive    *bool            `json:"isActive"`
}

type productUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	Stock       *int             `json:"stock"`
	MinStock    *int             `json:"minStock"`
	Unit        *string          `json:"unit"`
	Barcode     *string          `json:"barcode"`
	IsActive    *bool            `json:"isActive"`
}

func (h *ProductHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR barcode = ?", like, like, search)
	}

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list products")
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !req.Price.IsPositive() {
		httperr.BadRequest(c, "invalid_price", "price must be greater than zero")
		return
	}

	product := models.Product{
		SalonID:     salonID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Unit:        req.Unit,
		Barcode:     req.Barcode,
		IsActive:    true,
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			httperr.BadRequest(c, "invalid_cost_price", "cost price cannot be negative")
			return
		}
		product.CostPrice = *req.CostPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to create product")
		return
	}

	httpresp.Created(c, product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, ok := h.loadScoped(c)
	if !ok {
		return
	}
	httpresp.OK(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	product, ok := h.loadScoped(c)
	if !ok {
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Price != nil && !req.Price.IsPositive() {
		httperr.BadRequest(c, "invalid_price", "price must be greater than zero")
		return
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		httperr.BadRequest(c, "invalid_cost_price", "cost price cannot be negative")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update product")
		return
	}

	httpresp.OK(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	product, ok := h.loadScoped(c)
	if !ok {
		return
	}

	if err := h.db.Delete(product).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete product")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

func (h *ProductHandler) loadScoped(c *gin.Context) (*models.Product, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid product id")
		return nil, false
	}

	var product models.Product
	if err := h.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "product not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load product")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), product.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "product belongs to another salon")
		return nil, false
	}

	return &product, true
}
