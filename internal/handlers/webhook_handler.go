package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agendusalao/salon-api/internal/whatsapp"
)

// WebhookHandler receives Evolution gateway events. The gateway retries
// on non-2xx, so every handled (or unknown) event answers 200.
type WebhookHandler struct {
	sessions whatsapp.SessionStore
	log      zerolog.Logger
}

func NewWebhookHandler(sessions whatsapp.SessionStore, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		sessions: sessions,
		log:      log.With().Str("component", "whatsapp_webhook").Logger(),
	}
}

type webhookPayload struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		State  string `json:"state"`
		QRCode struct {
			Base64 string `json:"base64"`
		} `json:"qrcode"`
		Key struct {
			RemoteJid string `json:"remoteJid"`
		} `json:"key"`
		Message struct {
			Conversation string `json:"conversation"`
		} `json:"message"`
	} `json:"data"`
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook body")
		c.Status(http.StatusOK)
		return
	}

	ctx := c.Request.Context()

	switch payload.Event {
	case "messages.upsert", "MESSAGES_UPSERT":
		h.log.Info().
			Str("from", payload.Data.Key.RemoteJid).
			Str("text", payload.Data.Message.Conversation).
			Msg("inbound message")

	case "connection.update", "CONNECTION_UPDATE":
		h.onConnectionUpdate(ctx, payload)

	case "qrcode.updated", "QRCODE_UPDATED":
		h.onQRCodeUpdated(ctx, payload)

	default:
		h.log.Debug().Str("event", payload.Event).Msg("ignoring webhook event")
	}

	c.Status(http.StatusOK)
}

func (h *WebhookHandler) onConnectionUpdate(ctx context.Context, payload webhookPayload) {
	salonID, err := h.sessions.ResolveInstance(ctx, payload.Instance)
	if err != nil {
		h.logResolveFailure(payload.Instance, err)
		return
	}

	sess, err := h.sessions.Get(ctx, salonID)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load session")
		return
	}

	switch payload.Data.State {
	case "open":
		sess.State = whatsapp.StateConnected
		sess.QRCode = ""
	case "close":
		sess.State = whatsapp.StateDisconnected
		sess.PhoneNumber = ""
	default:
		return
	}
	sess.UpdatedAt = time.Now()

	if err := h.sessions.Put(ctx, salonID, sess); err != nil {
		h.log.Warn().Err(err).Msg("failed to persist session state")
	}
}

func (h *WebhookHandler) onQRCodeUpdated(ctx context.Context, payload webhookPayload) {
	salonID, err := h.sessions.ResolveInstance(ctx, payload.Instance)
	if err != nil {
		h.logResolveFailure(payload.Instance, err)
		return
	}

	sess := whatsapp.Session{
		State:     whatsapp.StatePairing,
		QRCode:    payload.Data.QRCode.Base64,
		UpdatedAt: time.Now(),
	}
	if err := h.sessions.Put(ctx, salonID, sess); err != nil {
		h.log.Warn().Err(err).Msg("failed to persist session state")
	}
}

func (h *WebhookHandler) logResolveFailure(instance string, err error) {
	if errors.Is(err, whatsapp.ErrUnknownInstance) {
		h.log.Debug().Str("instance", instance).Msg("event for unbound instance")
		return
	}
	h.log.Warn().Err(err).Str("instance", instance).Msg("failed to resolve instance")
}
