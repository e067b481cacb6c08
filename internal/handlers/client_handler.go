package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type clientCreateRequest struct {
	Name        string     `json:"name" binding:"required"`
	Phone       string     `json:"phone" binding:"required"`
	Email       string     `json:"email"`
	BirthDate   *time.Time `json:"birthDate"`
	Address     string     `json:"address"`
	Notes       string     `json:"notes"`
	Preferences string     `json:"preferences"`
}

type clientUpdateRequest struct {
	Name        *string    `json:"name"`
	Phone       *string    `json:"phone"`
	Email       *string    `json:"email"`
	BirthDate   *time.Time `json:"birthDate"`
	Address     *string    `json:"address"`
	Notes       *string    `json:"notes"`
	Preferences *string    `json:"preferences"`
	Status      *string    `json:"status"`
}

func (h *ClientHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, "%"+search+"%",
		)
	}

	if status := c.Query("status"); status != "" && status != "all" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list clients")
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req clientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// Phone is the natural key inside the salon.
	var count int64
	h.db.Model(&models.Client{}).
		Where("salon_id = ? AND phone = ?", salonID, req.Phone).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "phone_taken", "a client with this phone already exists")
		return
	}

	client := models.Client{
		SalonID:     salonID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		BirthDate:   req.BirthDate,
		Address:     req.Address,
		Notes:       req.Notes,
		Preferences: req.Preferences,
		Status:      "ACTIVE",
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to create client")
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.loadScoped(c)
	if !ok {
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.loadScoped(c)
	if !ok {
		return
	}

	var req clientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.BirthDate != nil {
		client.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Preferences != nil {
		client.Preferences = *req.Preferences
	}
	if req.Status != nil {
		client.Status = strings.ToUpper(*req.Status)
	}

	if err := h.db.Save(client).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update client")
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	client, ok := h.loadScoped(c)
	if !ok {
		return
	}

	if err := h.db.Delete(client).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete client")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

// loadScoped resolves existence before the tenant gate so a missing id
// stays a 404 and a foreign one a 403.
func (h *ClientHandler) loadScoped(c *gin.Context) (*models.Client, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid client id")
		return nil, false
	}

	var client models.Client
	if err := h.db.Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "client not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load client")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), client.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "client belongs to another salon")
		return nil, false
	}

	return &client, true
}
