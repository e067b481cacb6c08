package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agendusalao/salon-api/internal/audit"
	"github.com/agendusalao/salon-api/internal/config"
	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/license"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/models"
	"github.com/agendusalao/salon-api/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
	log    zerolog.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, auditor *audit.Dispatcher, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: auditor, log: log}
}

// --------- Requests ---------

type RegisterRequest struct {
	SalonName string `json:"salonName" binding:"required"`
	OwnerName string `json:"ownerName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`

	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	PlanType string `json:"planType"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates the salon, its owner and the default working-hours
// rows as a single transaction.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "invalid email address")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_taken", "email is already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to hash password")
		return
	}

	licenseKey, err := license.NewUniqueKey(c.Request.Context(), &salonKeyLookup{db: h.db})
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to generate license key")
		return
	}

	planType := req.PlanType
	if planType == "" {
		planType = "STARTER"
	}

	user := models.User{
		Name:         req.OwnerName,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "OWNER",
		IsActive:     true,
	}

	salon := models.Salon{
		Name:          req.SalonName,
		OwnerName:     req.OwnerName,
		Email:         email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		LicenseKey:    licenseKey,
		PlanType:      planType,
		LicenseStatus: models.LicenseTrial,
		ExpiresAt:     license.TrialExpiry(time.Now()),
		IsActive:      true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		salon.OwnerID = user.ID
		if err := tx.Create(&salon).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("salon_id", salon.ID).Error; err != nil {
			return err
		}
		user.SalonID = salon.ID

		return tx.Create(defaultWorkingHours(&salon)).Error
	})
	if err != nil {
		h.log.Error().Err(err).Msg("registration failed")
		httperr.Internal(c, "registration_failed", "failed to create salon")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to generate token")
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID: salon.ID,
		UserID:  &user.ID,
		Action:  "salon_registered",
		Entity:  "salon",
	})

	httpresp.Created(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"salon": gin.H{
			"id":             salon.ID,
			"name":           salon.Name,
			"license_key":    salon.LicenseKey,
			"license_status": salon.LicenseStatus,
			"expires_at":     salon.ExpiresAt,
			"plan_type":      salon.PlanType,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Salon").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
			return
		}
		httperr.Internal(c, "internal_error", "login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
		return
	}

	if !user.IsActive {
		httperr.Forbidden(c, "user_inactive", "account is deactivated")
		return
	}

	if user.Salon.ID == uuid.Nil {
		httperr.Forbidden(c, "no_salon", "user has no salon")
		return
	}

	if !license.LoginAllowed(user.Salon.LicenseStatus, user.Salon.ExpiresAt, time.Now()) {
		httperr.Forbidden(c, "license_invalid", "license is "+strings.ToLower(user.Salon.LicenseStatus))
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to generate token")
		return
	}

	now := time.Now()
	h.db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now)

	h.audit.Dispatch(audit.Event{
		SalonID: user.SalonID,
		UserID:  &user.ID,
		Action:  "user_login",
		Entity:  "user",
	})

	httpresp.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
			"salon": gin.H{
				"id":             user.Salon.ID,
				"name":           user.Salon.Name,
				"license_status": user.Salon.LicenseStatus,
				"expires_at":     user.Salon.ExpiresAt,
			},
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.db.Preload("Salon").
		Where("id = ?", middleware.UserID(c)).
		First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "user not found")
		return
	}

	httpresp.OK(c, gin.H{
		"user":  user,
		"salon": user.Salon,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"email":   user.Email,
		"salonId": user.SalonID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- helpers ---------

type salonKeyLookup struct {
	db *gorm.DB
}

func (l *salonKeyLookup) KeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.Salon{}).
		Where("license_key = ?", key).
		Count(&count).Error
	return count > 0, err
}

// defaultWorkingHours seeds Mon-Fri 09:00-18:00, Sat 09:00-14:00 and a
// closed Sunday row.
func defaultWorkingHours(salon *models.Salon) []models.WorkingHours {
	rows := make([]models.WorkingHours, 0, 7)
	for day := 1; day <= 5; day++ {
		rows = append(rows, models.WorkingHours{
			SalonID:   salon.ID,
			DayOfWeek: day,
			StartTime: "09:00",
			EndTime:   "18:00",
		})
	}
	rows = append(rows, models.WorkingHours{
		SalonID:   salon.ID,
		DayOfWeek: 6,
		StartTime: "09:00",
		EndTime:   "14:00",
	})
	rows = append(rows, models.WorkingHours{
		SalonID:   salon.ID,
		DayOfWeek: 0,
		StartTime: "09:00",
		EndTime:   "18:00",
		IsClosed:  true,
	})
	return rows
}
