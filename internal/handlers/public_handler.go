package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/validators"
)

// PublicHandler serves the unauthenticated self-service endpoints used by
// the booking page. Everything here resolves its salon explicitly since
// there is no bearer principal.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

type publicClientRegisterRequest struct {
	Name    string     `json:"name" binding:"required"`
	Email   string     `json:"email" binding:"required"`
	Phone   string     `json:"phone" binding:"required"`
	SalonID *uuid.UUID `json:"salonId"`
}

func (h *PublicHandler) RegisterClient(c *gin.Context) {
	var req publicClientRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "invalid email address")
		return
	}
	if !validators.IsPhoneValid(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "invalid phone number")
		return
	}

	salonID, ok := h.resolveSalon(c, req.SalonID)
	if !ok {
		return
	}

	var count int64
	err := h.db.Model(&models.Client{}).
		Where("salon_id = ? AND LOWER(email) = LOWER(?)", salonID, req.Email).
		Count(&count).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to check email")
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "email_taken", "email already registered for this salon")
		return
	}

	client := models.Client{
		SalonID: salonID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  "ACTIVE",
	}
	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to register client")
		return
	}

	httpresp.Created(c, client)
}

func (h *PublicHandler) ClientAppointments(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		httperr.BadRequest(c, "missing_phone", "phone query parameter is required")
		return
	}

	var clients []models.Client
	err := h.db.
		Joins("JOIN salons ON salons.id = clients.salon_id AND salons.is_active = true").
		Where("clients.phone = ?", phone).
		Find(&clients).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to look up client")
		return
	}
	if len(clients) == 0 {
		httperr.NotFound(c, "client_not_found", "no client registered with this phone")
		return
	}

	clientIDs := make([]uuid.UUID, 0, len(clients))
	for _, cl := range clients {
		clientIDs = append(clientIDs, cl.ID)
	}

	var appointments []models.Appointment
	err = h.db.Where("client_id IN ?", clientIDs).
		Preload("Service").Preload("Professional").
		Order("date DESC, start_time DESC").
		Find(&appointments).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to list appointments")
		return
	}

	httpresp.List(c, appointments)
}

type publicProfessionalRegisterRequest struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email" binding:"required"`
	Phone       string     `json:"phone"`
	Specialties string     `json:"specialties"`
	SalonID     *uuid.UUID `json:"salonId"`
}

func (h *PublicHandler) RegisterProfessional(c *gin.Context) {
	var req publicProfessionalRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "invalid email address")
		return
	}

	salonID, ok := h.resolveSalon(c, req.SalonID)
	if !ok {
		return
	}

	var count int64
	err := h.db.Model(&models.Professional{}).
		Where("salon_id = ? AND LOWER(email) = LOWER(?)", salonID, req.Email).
		Count(&count).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to check email")
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "email_taken", "email already registered for this salon")
		return
	}

	prof := models.Professional{
		SalonID:     salonID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Specialties: req.Specialties,
		IsActive:    true,
	}
	if err := h.db.Create(&prof).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to register professional")
		return
	}

	httpresp.Created(c, prof)
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	var salonID uuid.UUID
	if s := c.Query("salonId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "invalid salon id")
			return
		}
		salonID = id
	} else {
		id, ok := h.resolveSalon(c, nil)
		if !ok {
			return
		}
		salonID = id
	}

	var professionals []models.Professional
	err := h.db.Where("salon_id = ? AND is_active = true", salonID).
		Order("name ASC").
		Find(&professionals).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to list professionals")
		return
	}

	httpresp.List(c, professionals)
}

// resolveSalon validates an explicit salon id or falls back to the first
// active salon. Writes the response itself on failure.
func (h *PublicHandler) resolveSalon(c *gin.Context, explicit *uuid.UUID) (uuid.UUID, bool) {
	var salon models.Salon

	q := h.db.Where("is_active = true")
	if explicit != nil {
		q = q.Where("id = ?", *explicit)
	} else {
		q = q.Order("created_at ASC")
	}

	if err := q.First(&salon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.BadRequest(c, "no_salon_available", "no active salon available")
			return uuid.Nil, false
		}
		httperr.Internal(c, "internal_error", "failed to resolve salon")
		return uuid.Nil, false
	}

	return salon.ID, true
}
