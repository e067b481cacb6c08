package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/finance"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type professionalCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Specialties string   `json:"specialties"`
	Commission  *float64 `json:"commission"`
	IsActive    *bool    `json:"isActive"`
}

type professionalUpdateRequest struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Specialties *string  `json:"specialties"`
	Commission  *float64 `json:"commission"`
	IsActive    *bool    `json:"isActive"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, "%"+search+"%",
		)
	}

	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var professionals []models.Professional
	if err := q.Order("name ASC").Find(&professionals).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list professionals")
		return
	}

	httpresp.List(c, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req professionalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
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

	if req.Email != "" {
		var count int64
		h.db.Model(&models.Professional{}).
			Where("salon_id = ? AND email = ?", salonID, req.Email).
			Count(&count)
		if count > 0 {
			httperr.Conflict(c, "email_taken", "a professional with this email already exists")
			return
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	prof := models.Professional{
		SalonID:     salonID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Specialties: req.Specialties,
		Commission:  commission,
		IsActive:    isActive,
	}

	if err := h.db.Create(&prof).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to create professional")
		return
	}

	httpresp.Created(c, prof)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	prof, ok := h.loadScoped(c)
	if !ok {
		return
	}
	httpresp.OK(c, prof)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	prof, ok := h.loadScoped(c)
	if !ok {
		return
	}

	var req professionalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Commission != nil && !finance.ValidRate(*req.Commission) {
		httperr.BadRequest(c, "invalid_commission", "commission must be between 0 and 100")
		return
	}

	if req.Name != nil {
		prof.Name = *req.Name
	}
	if req.Email != nil {
		prof.Email = *req.Email
	}
	if req.Phone != nil {
		prof.Phone = *req.Phone
	}
	if req.Specialties != nil {
		prof.Specialties = *req.Specialties
	}
	if req.Commission != nil {
		prof.Commission = *req.Commission
	}
	if req.IsActive != nil {
		prof.IsActive = *req.IsActive
	}

	if err := h.db.Save(prof).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update professional")
		return
	}

	httpresp.OK(c, prof)
}

func (h *ProfessionalHandler) Delete(c *gin.Context) {
	prof, ok := h.loadScoped(c)
	if !ok {
		return
	}

	if err := h.db.Delete(prof).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete professional")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

func (h *ProfessionalHandler) loadScoped(c *gin.Context) (*models.Professional, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid professional id")
		return nil, false
	}

	var prof models.Professional
	if err := h.db.Where("id = ?", id).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "professional_not_found", "professional not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load professional")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), prof.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "professional belongs to another salon")
		return nil, false
	}

	return &prof, true
}
