package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendusalao/salon-api/internal/config"
	"github.com/agendusalao/salon-api/internal/handlers"
	"github.com/agendusalao/salon-api/internal/whatsapp"
)

type fakeSessionStore struct {
	sessions  map[uuid.UUID]whatsapp.Session
	instances map[string]uuid.UUID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions:  make(map[uuid.UUID]whatsapp.Session),
		instances: make(map[string]uuid.UUID),
	}
}

func (f *fakeSessionStore) Get(ctx context.Context, salonID uuid.UUID) (whatsapp.Session, error) {
	if s, ok := f.sessions[salonID]; ok {
		return s, nil
	}
	return whatsapp.Session{State: whatsapp.StateDisconnected}, nil
}

func (f *fakeSessionStore) Put(ctx context.Context, salonID uuid.UUID, s whatsapp.Session) error {
	f.sessions[salonID] = s
	return nil
}

func (f *fakeSessionStore) Clear(ctx context.Context, salonID uuid.UUID) error {
	delete(f.sessions, salonID)
	return nil
}

func (f *fakeSessionStore) BindInstance(ctx context.Context, instance string, salonID uuid.UUID) error {
	f.instances[instance] = salonID
	return nil
}

func (f *fakeSessionStore) ResolveInstance(ctx context.Context, instance string) (uuid.UUID, error) {
	id, ok := f.instances[instance]
	if !ok {
		return uuid.Nil, whatsapp.ErrUnknownInstance
	}
	return id, nil
}

func TestWhatsAppSend_RequiresConnectedSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	salonID := uuid.New()

	store := newFakeSessionStore()
	store.sessions[salonID] = whatsapp.Session{State: whatsapp.StatePairing}

	h := handlers.NewWhatsAppHandler(nil, store, "", zerolog.Nop())
	r := gin.New()
	r.POST("/whatsapp", asPrincipal(salonID, uuid.New()), h.Send)

	w := postJSON(t, r, "/whatsapp", `{"action":"send","to":"+5511999998888","message":"oi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not_connected")
}

func TestWhatsAppSend_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	salonID := uuid.New()

	store := newFakeSessionStore()
	store.sessions[salonID] = whatsapp.Session{State: whatsapp.StateConnected}

	h := handlers.NewWhatsAppHandler(nil, store, "", zerolog.Nop())
	r := gin.New()
	r.POST("/whatsapp", asPrincipal(salonID, uuid.New()), h.Send)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"wrong action", `{"action":"broadcast","to":"+5511999998888","message":"oi"}`, "invalid_action"},
		{"missing message", `{"action":"send","to":"+5511999998888"}`, "invalid_request"},
		{"bad number", `{"action":"send","to":"abc","message":"oi"}`, "invalid_phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/whatsapp", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

// Each salon pairs its own gateway instance; a second salon connecting
// must not rebind the first salon's webhook routing.
func TestWhatsAppConnect_InstancePerSalon(t *testing.T) {
	gin.SetMode(gin.TestMode)
	salonA, salonB := uuid.New(), uuid.New()

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/instance/connect/") {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"qrcode":{"base64":"qr-data"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gateway.Close)

	client := whatsapp.NewClient(&config.Config{
		WhatsAppBaseURL:        gateway.URL,
		WhatsAppInstancePrefix: "salao",
		WhatsAppTimeout:        5 * time.Second,
	}, zerolog.Nop())

	store := newFakeSessionStore()
	h := handlers.NewWhatsAppHandler(client, store, "", zerolog.Nop())

	for _, salonID := range []uuid.UUID{salonA, salonB} {
		r := gin.New()
		r.GET("/whatsapp", asPrincipal(salonID, uuid.New()), h.Handle)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whatsapp?action=connect", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Len(t, store.instances, 2)
	assert.Equal(t, salonA, store.instances[client.InstanceFor(salonA)])
	assert.Equal(t, salonB, store.instances[client.InstanceFor(salonB)])
	assert.Equal(t, whatsapp.StatePairing, store.sessions[salonA].State)
	assert.Equal(t, whatsapp.StatePairing, store.sessions[salonB].State)
}

func TestWebhook_ConnectionUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	salonID := uuid.New()

	store := newFakeSessionStore()
	store.instances["salao01"] = salonID
	store.sessions[salonID] = whatsapp.Session{State: whatsapp.StatePairing, QRCode: "old-qr"}

	h := handlers.NewWebhookHandler(store, zerolog.Nop())
	r := gin.New()
	r.POST("/webhook/whatsapp", h.Handle)

	w := postJSON(t, r, "/webhook/whatsapp",
		`{"event":"CONNECTION_UPDATE","instance":"salao01","data":{"state":"open"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	sess := store.sessions[salonID]
	assert.Equal(t, whatsapp.StateConnected, sess.State)
	assert.Empty(t, sess.QRCode)

	w = postJSON(t, r, "/webhook/whatsapp",
		`{"event":"CONNECTION_UPDATE","instance":"salao01","data":{"state":"close"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, whatsapp.StateDisconnected, store.sessions[salonID].State)
}

func TestWebhook_QRCodeUpdated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	salonID := uuid.New()

	store := newFakeSessionStore()
	store.instances["salao01"] = salonID

	h := handlers.NewWebhookHandler(store, zerolog.Nop())
	r := gin.New()
	r.POST("/webhook/whatsapp", h.Handle)

	w := postJSON(t, r, "/webhook/whatsapp",
		`{"event":"QRCODE_UPDATED","instance":"salao01","data":{"qrcode":{"base64":"fresh-qr"}}}`)
	require.Equal(t, http.StatusOK, w.Code)

	sess := store.sessions[salonID]
	assert.Equal(t, whatsapp.StatePairing, sess.State)
	assert.Equal(t, "fresh-qr", sess.QRCode)
}

func TestWebhook_UnknownEventAndInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := newFakeSessionStore()
	h := handlers.NewWebhookHandler(store, zerolog.Nop())
	r := gin.New()
	r.POST("/webhook/whatsapp", h.Handle)

	// Unknown events and unbound instances both answer 200 so the
	// gateway does not retry.
	w := postJSON(t, r, "/webhook/whatsapp", `{"event":"SOMETHING_ELSE","instance":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/webhook/whatsapp", `{"event":"CONNECTION_UPDATE","instance":"ghost","data":{"state":"open"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.sessions)
}
