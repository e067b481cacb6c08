package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/agendusalao/salon-api/internal/handlers"
	"github.com/agendusalao/salon-api/internal/middleware"
)

// asPrincipal injects the context values AuthMiddleware would set, so
// validation paths can be exercised without a database.
func asPrincipal(salonID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSalonID, salonID)
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServiceCreate_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewServiceHandler(nil)
	r.POST("/servicos", asPrincipal(uuid.New(), uuid.New()), h.Create)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing name", `{"price":"50.00","duration":30}`, "invalid_request"},
		{"zero price", `{"name":"Corte","price":"0","duration":30}`, "invalid_price"},
		{"negative price", `{"name":"Corte","price":"-10","duration":30}`, "invalid_price"},
		{"zero duration", `{"name":"Corte","price":"50.00","duration":0}`, "invalid_duration"},
		{"commission above 100", `{"name":"Corte","price":"50.00","duration":30,"commission":101}`, "invalid_commission"},
		{"negative commission", `{"name":"Corte","price":"50.00","duration":30,"commission":-1}`, "invalid_commission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/servicos", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestProfessionalCreate_CommissionValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewProfessionalHandler(nil)
	r.POST("/profissionais", asPrincipal(uuid.New(), uuid.New()), h.Create)

	w := postJSON(t, r, "/profissionais", `{"name":"Ana","commission":150}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_commission")
}

func TestProductCreate_PriceValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewProductHandler(nil)
	r.POST("/produtos", asPrincipal(uuid.New(), uuid.New()), h.Create)

	w := postJSON(t, r, "/produtos", `{"name":"Shampoo","price":"0"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_price")
}

func TestTransactionCreate_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewTransactionHandler(nil)
	r.POST("/transacoes", asPrincipal(uuid.New(), uuid.New()), h.Create)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown type", `{"type":"TRANSFER","amount":"10","description":"x"}`, "invalid_type"},
		{"zero amount", `{"type":"INCOME","amount":"0","description":"x"}`, "invalid_amount"},
		{"missing description", `{"type":"INCOME","amount":"10"}`, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/transacoes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestResourceGet_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewClientHandler(nil)
	r.GET("/clientes/:id", asPrincipal(uuid.New(), uuid.New()), h.Get)

	req := httptest.NewRequest(http.MethodGet, "/clientes/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}
