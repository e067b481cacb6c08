package handlers

import (
	"errors"
	"time"

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

type TransactionHandler struct {
	db *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{db: db}
}

type transactionCreateRequest struct {
	Type           string          `json:"type" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description" binding:"required"`
	Category       string          `json:"category"`
	PaymentMethod  string          `json:"paymentMethod"`
	ProfessionalID *uuid.UUID      `json:"professionalId"`
	Date           *time.Time      `json:"date"`
}

type transactionUpdateRequest struct {
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	PaymentMethod *string          `json:"paymentMethod"`
	Amount        *decimal.Decimal `json:"amount"`
}

func (h *TransactionHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.Where("salon_id = ?", salonID)

	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if pid := c.Query("professionalId"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "invalid professional id")
			return
		}
		q = q.Where("professional_id = ?", id)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
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

	var txns []models.Transaction
	if err := q.Preload("Professional").Order("date DESC").Find(&txns).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to list transactions")
		return
	}

	httpresp.List(c, txns)
}

func (h *TransactionHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req transactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Type != models.TransactionIncome && req.Type != models.TransactionExpense {
		httperr.BadRequest(c, "invalid_type", "type must be INCOME or EXPENSE")
		return
	}
	if !req.Amount.IsPositive() {
		httperr.BadRequest(c, "invalid_amount", "amount must be greater than zero")
		return
	}

	txn := models.Transaction{
		SalonID:       salonID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Date:          time.Now(),
	}
	if txn.Category == "" {
		txn.Category = "Outros"
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = "CASH"
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}

	// Commission applies to income earned through a professional of this
	// salon; the rate is captured here and never revisited.
	if req.Type == models.TransactionIncome && req.ProfessionalID != nil {
		var prof models.Professional
		err := h.db.Where("id = ? AND salon_id = ?", *req.ProfessionalID, salonID).First(&prof).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.NotFound(c, "professional_not_found", "professional not found")
				return
			}
			httperr.Internal(c, "internal_error", "failed to load professional")
			return
		}
		txn.ProfessionalID = req.ProfessionalID
		txn.CommissionRate = prof.Commission
		txn.CommissionAmount = finance.Commission(req.Amount, prof.Commission)
	}

	if err := h.db.Create(&txn).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to create transaction")
		return
	}

	httpresp.Created(c, txn)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	txn, ok := h.loadScoped(c)
	if !ok {
		return
	}
	httpresp.OK(c, txn)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	txn, ok := h.loadScoped(c)
	if !ok {
		return
	}

	var req transactionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Category != nil {
		txn.Category = *req.Category
	}
	if req.PaymentMethod != nil {
		txn.PaymentMethod = *req.PaymentMethod
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			httperr.BadRequest(c, "invalid_amount", "amount must be greater than zero")
			return
		}
		txn.Amount = *req.Amount
		// Recompute from the rate stored on the row, not the
		// professional's current rate.
		txn.CommissionAmount = finance.Commission(*req.Amount, txn.CommissionRate)
	}

	if err := h.db.Save(txn).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to update transaction")
		return
	}

	httpresp.OK(c, txn)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	txn, ok := h.loadScoped(c)
	if !ok {
		return
	}

	if err := h.db.Delete(txn).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to delete transaction")
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}

type dashboardResponse struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TotalCommissions decimal.Decimal `json:"totalCommissions"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int             `json:"transactionCount"`
	Period           dashboardPeriod `json:"period"`
}

type dashboardPeriod struct {
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

func (h *TransactionHandler) Dashboard(c *gin.Context) {
	salonID := middleware.SalonID(c)

	from, to, err := parsePeriod(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", err.Error())
		return
	}

	q := h.db.Where("salon_id = ?", salonID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", to.AddDate(0, 0, 1))
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		httperr.Internal(c, "internal_error", "failed to load transactions")
		return
	}

	resp := dashboardResponse{
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		TotalCommissions: decimal.Zero,
		TransactionCount: len(txns),
		Period: dashboardPeriod{
			DateFrom: c.Query("dateFrom"),
			DateTo:   c.Query("dateTo"),
		},
	}
	for _, t := range txns {
		switch t.Type {
		case models.TransactionIncome:
			resp.TotalIncome = resp.TotalIncome.Add(t.Amount)
			resp.TotalCommissions = resp.TotalCommissions.Add(t.CommissionAmount)
		case models.TransactionExpense:
			resp.TotalExpense = resp.TotalExpense.Add(t.Amount)
		}
	}
	resp.NetProfit = resp.TotalIncome.Sub(resp.TotalExpense).Sub(resp.TotalCommissions)

	httpresp.OK(c, resp)
}

func (h *TransactionHandler) loadScoped(c *gin.Context) (*models.Transaction, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "invalid transaction id")
		return nil, false
	}

	var txn models.Transaction
	if err := h.db.Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "transaction_not_found", "transaction not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "failed to load transaction")
		return nil, false
	}

	if err := tenant.Authorize(middleware.SalonID(c), txn.SalonID); err != nil {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "transaction belongs to another salon")
		return nil, false
	}

	return &txn, true
}

// parsePeriod reads optional dateFrom/dateTo query params in YYYY-MM-DD form.
func parsePeriod(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("dateFrom"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, errors.New("dateFrom must be YYYY-MM-DD")
		}
		from = &t
	}
	if s := c.Query("dateTo"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, errors.New("dateTo must be YYYY-MM-DD")
		}
		to = &t
	}
	return from, to, nil
}
