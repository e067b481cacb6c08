package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendusalao/salon-api/internal/httperr"
	"github.com/agendusalao/salon-api/internal/httpresp"
	"github.com/agendusalao/salon-api/internal/middleware"
	"github.com/agendusalao/salon-api/internal/validators"
	"github.com/agendusalao/salon-api/internal/whatsapp"
)

type WhatsAppHandler struct {
	client     *whatsapp.Client
	sessions   whatsapp.SessionStore
	webhookURL string
	log        zerolog.Logger
}

func NewWhatsAppHandler(client *whatsapp.Client, sessions whatsapp.SessionStore, webhookURL string, log zerolog.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		client:     client,
		sessions:   sessions,
		webhookURL: webhookURL,
		log:        log.With().Str("component", "whatsapp").Logger(),
	}
}

// Handle multiplexes the GET actions: status, connect, disconnect.
func (h *WhatsAppHandler) Handle(c *gin.Context) {
	switch c.Query("action") {
	case "status", "":
		h.status(c)
	case "connect":
		h.connect(c)
	case "disconnect":
		h.disconnect(c)
	default:
		httperr.BadRequest(c, "invalid_action", "action must be status, connect or disconnect")
	}
}

func (h *WhatsAppHandler) status(c *gin.Context) {
	ctx := c.Request.Context()
	salonID := middleware.SalonID(c)

	sess, err := h.sessions.Get(ctx, salonID)
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to load session")
		return
	}

	// Refresh from the gateway so a pairing completed on the phone is
	// reflected without waiting for the webhook.
	info, err := h.client.Status(ctx, h.client.InstanceFor(salonID))
	if err != nil {
		h.log.Warn().Err(err).Msg("gateway status check failed")
		httpresp.OK(c, sess)
		return
	}

	changed := false
	if info.Connected && sess.State != whatsapp.StateConnected {
		sess.State = whatsapp.StateConnected
		sess.QRCode = ""
		sess.PhoneNumber = info.ProfileName
		changed = true
	}
	if !info.Connected && sess.State == whatsapp.StateConnected {
		sess.State = whatsapp.StateDisconnected
		sess.PhoneNumber = ""
		changed = true
	}
	if changed {
		sess.UpdatedAt = time.Now()
		if err := h.sessions.Put(ctx, salonID, sess); err != nil {
			h.log.Warn().Err(err).Msg("failed to persist session state")
		}
	}

	httpresp.OK(c, sess)
}

func (h *WhatsAppHandler) connect(c *gin.Context) {
	ctx := c.Request.Context()
	salonID := middleware.SalonID(c)

	instance := h.client.InstanceFor(salonID)

	if err := h.client.CreateInstance(ctx, instance); err != nil {
		h.fail(c, salonID, err, "failed to create instance")
		return
	}

	if h.webhookURL != "" {
		if err := h.client.SetWebhook(ctx, instance, h.webhookURL); err != nil {
			h.log.Warn().Err(err).Msg("webhook registration failed")
		}
	}

	qr, err := h.client.Connect(ctx, instance)
	if err != nil {
		h.fail(c, salonID, err, "failed to obtain qr code")
		return
	}

	if err := h.sessions.BindInstance(ctx, instance, salonID); err != nil {
		httperr.Internal(c, "internal_error", "failed to bind instance")
		return
	}

	sess := whatsapp.Session{
		State:     whatsapp.StatePairing,
		QRCode:    qr,
		UpdatedAt: time.Now(),
	}
	if err := h.sessions.Put(ctx, salonID, sess); err != nil {
		httperr.Internal(c, "internal_error", "failed to persist session")
		return
	}

	httpresp.OK(c, sess)
}

func (h *WhatsAppHandler) disconnect(c *gin.Context) {
	ctx := c.Request.Context()
	salonID := middleware.SalonID(c)

	if err := h.client.Disconnect(ctx, h.client.InstanceFor(salonID)); err != nil {
		h.log.Warn().Err(err).Msg("gateway logout failed")
	}

	if err := h.sessions.Clear(ctx, salonID); err != nil {
		httperr.Internal(c, "internal_error", "failed to clear session")
		return
	}

	httpresp.OK(c, whatsapp.Session{State: whatsapp.StateDisconnected, UpdatedAt: time.Now()})
}

type whatsappSendRequest struct {
	Action  string `json:"action" binding:"required"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send proxies an outbound text message, rejected unless the salon's
// session is CONNECTED.
func (h *WhatsAppHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()
	salonID := middleware.SalonID(c)

	var req whatsappSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Action != "send" {
		httperr.BadRequest(c, "invalid_action", "action must be send")
		return
	}
	if req.To == "" || req.Message == "" {
		httperr.BadRequest(c, "invalid_request", "to and message are required")
		return
	}
	if !validators.IsPhoneValid(req.To) {
		httperr.BadRequest(c, "invalid_phone", "invalid destination number")
		return
	}

	sess, err := h.sessions.Get(ctx, salonID)
	if err != nil {
		httperr.Internal(c, "internal_error", "failed to load session")
		return
	}
	if sess.State != whatsapp.StateConnected {
		httperr.BadRequest(c, "not_connected", "whatsapp session is not connected")
		return
	}

	result, err := h.client.SendMessage(ctx, h.client.InstanceFor(salonID), req.To, req.Message)
	if err != nil {
		httperr.Internal(c, "gateway_error", "failed to send message")
		return
	}

	httpresp.OK(c, result)
}

func (h *WhatsAppHandler) fail(c *gin.Context, salonID uuid.UUID, err error, msg string) {
	h.log.Error().Err(err).Str("salon", salonID.String()).Msg(msg)

	sess := whatsapp.Session{State: whatsapp.StateError, UpdatedAt: time.Now()}
	if perr := h.sessions.Put(c.Request.Context(), salonID, sess); perr != nil {
		h.log.Warn().Err(perr).Msg("failed to persist error state")
	}

	httperr.Internal(c, "gateway_error", msg)
}
