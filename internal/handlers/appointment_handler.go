package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/agendusalao/salon-api/internal/domain/appointment"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/tenant"
	usecase "github.com/agendusalao/salon-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	db         *gorm.DB
	createUC   *usecase.CreateAppointment
	completeUC *usecase.CompleteAppointment
	cancelUC   *usecase.CancelAppointment
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *usecase.CreateAppointment,
	completeUC *usecase.CompleteAppointment,
	cancelUC *usecase.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		createUC:   createUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
	}
}

type appointmentCreateRequest struct {
	ClientID       uuid.UUID `json:"clientId" binding:"required"`
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	ProfessionalID uuid.UUID `json:"professionalId" binding:"required"`
	Date           string    `json:"date" binding:"required"`
	StartTime      string    `json:"startTime" binding:"required"`
	Notes          string    `json:"notes"`
}

type appointmentUpdateRequest struct {
	Status        *string          `json:"status"`
	Notes         *string          `json:"notes"`
	PaymentStatus *string          `json:"paymentStatus"`
	TotalPrice    *decimal.Decimal `json:"totalPrice"`
}

func (h *AppointmentHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if pid := c.Query("professionalId"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "invalid professional id")
			return
		}
		q = q.Where("professional_id = ?", id)
	}
	if cid := c.Query("clientId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "invalid client id")
			return
		}
		q = q.Where("client_id = ?", id)
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", err.Error())
		return
	}
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", to.AddDate(0, 0, 1))
	}

	var appointments []models.Appointment
	err = q.Preload("Client").Preload("Service").Preload("Professional").
		Order("date DESC, start_time DESC").
		Find(&appointments).Error
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to list appointments")
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req appointmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		SalonID:        middleware.SalonID(c),
		UserID:         middleware.UserID(c),
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		Notes:          req.Notes,
	})
	if err != nil {
		h.writeUsecaseError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, ok := h.loadScoped(c, true)
	if !ok {
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	ap, ok := h.loadScoped(c, false)
	if !ok {
		return
	}

	var req appointmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.TotalPrice != nil && !req.TotalPrice.IsPositive() {
		httperr.BadRequest(c, "invalid_price", "total price must be greater than zero")
		return
	}

	// A status change to a terminal state routes through its use case so
	// completion posts its transaction and both stamp their timestamps.
	// The price patch rides along so the posted amount is the final one.
	if req.Status != nil && *req.Status != ap.Status {
		next := domain.Status(*req.Status)
		if !domain.IsValid(next) {
			httperr.BadRequest(c, "invalid_status", "unknown appointment status")
			return
		}

		switch next {
		case domain.StatusCompleted:
			updated, err := h.completeUC.Execute(c.Request.Context(), middleware.SalonID(c), middleware.UserID(c), ap.ID, req.TotalPrice)
			if err != nil {
				h.writeUsecaseError(c, err)
				return
			}
			ap = updated
		case domain.StatusCancelled:
			updated, err := h.cancelUC.Execute(c.Request.Context(), middleware.SalonID(c), middleware.UserID(c), ap.ID)
			if err != nil {
				h.writeUsecaseError(c, err)
				return
			}
			ap = updated
		default:
			if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
				httperr.BadRequest(c, httperr.CodeInvalidState, "appointment is in a terminal state")
				return
			}
			ap.Status = string(next)
		}
	}

	if req.Notes != nil {
		ap.Notes = *req.Notes
	}
	if req.PaymentStatus != nil {
		ap.PaymentStatus = *req.PaymentStatus
	}
	if req.TotalPrice != nil {
		ap.TotalPrice = *req.TotalPrice
	}

	if err := h.db.Omit("Client", "Service", "Professional").Save(ap).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	ap, ok := h.loadScoped(c, false)
	if !ok {
		return
	}

	if err := h.db.Delete(ap).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete appointment")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

func (h *AppointmentHandler) loadScoped(c *gin.Context, preload bool) (*models.Appointment, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid appointment id")
		return nil, false
	}

	q := h.db.Session(&gorm.Session{})
	if preload {
		q = q.Preload("Client").Preload("Service").Preload("Professional")
	}

	var ap models.Appointment
	if err := q.Where("id = ?", id).First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "appointment_not_found", "appointment not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load appointment")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), ap.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "appointment belongs to another salon")
		return nil, false
	}

	return &ap, true
}

func (h *AppointmentHandler) writeUsecaseError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "service_not_found"),
		httperr.IsBusiness(err, "client_not_found"),
		httperr.IsBusiness(err, "professional_not_found"):
		var be httperr.BusinessError
		errors.As(err, &be)
		httperr.NotFound(c, be.Code, "referenced record not found")
	case httperr.IsBusiness(err, "invalid_date"),
		httperr.IsBusiness(err, "date_in_past"),
		httperr.IsBusiness(err, "salon_closed"),
		httperr.IsBusiness(err, "outside_working_hours"),
		httperr.IsBusiness(err, "invalid_time"):
		var be httperr.BusinessError
		errors.As(err, &be)
		httperr.BadRequest(c, be.Code, "appointment rejected")
	default:
		httperr.FromBusiness(c, err, "appointment operation failed")
	}
}
