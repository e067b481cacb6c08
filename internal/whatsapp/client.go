// Package whatsapp wraps the Evolution gateway REST API and owns the
// per-salon pairing session state.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendusalao/salon-api/internal/config"
)

type Client struct {
	baseURL        string
	apiKey         string
	instancePrefix string
	http           *http.Client
	log            zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:        cfg.WhatsAppBaseURL,
		apiKey:         cfg.WhatsAppAPIKey,
		instancePrefix: cfg.WhatsAppInstancePrefix,
		http:           &http.Client{Timeout: cfg.WhatsAppTimeout},
		log:            log,
	}
}

// InstanceFor derives the gateway instance name for a salon. Every
// salon pairs its own phone, so instances are never shared.
func (c *Client) InstanceFor(salonID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", c.instancePrefix, salonID)
}

// GatewayError carries the gateway's HTTP status for callers that need
// to distinguish responses (409 on create means "already exists").
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("whatsapp gateway: status %d: %s", e.Status, e.Body)
}

type StatusInfo struct {
	Connected   bool
	State       string
	ProfileName string
}

type SendResult struct {
	MessageID string `json:"message_id"`
	Timestamp int64  `json:"timestamp"`
}

// CreateInstance registers the instance with the gateway. An existing
// instance is not an error.
func (c *Client) CreateInstance(ctx context.Context, instance string) error {
	body := map[string]any{
		"instanceName": instance,
		"qrcode":       true,
		"integration":  "WHATSAPP-BAILEYS",
	}

	err := c.do(ctx, http.MethodPost, "/instance/create", body, nil)
	var ge *GatewayError
	if errors.As(err, &ge) && ge.Status == http.StatusConflict {
		c.log.Debug().Str("instance", instance).Msg("whatsapp instance already exists")
		return nil
	}
	return err
}

// Connect asks the gateway for a pairing QR code, returned base64-encoded.
func (c *Client) Connect(ctx context.Context, instance string) (string, error) {
	var resp struct {
		QRCode struct {
			Base64      string `json:"base64"`
			PairingCode string `json:"pairingCode"`
		} `json:"qrcode"`
	}

	path := fmt.Sprintf("/instance/connect/%s", instance)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	if resp.QRCode.Base64 == "" {
		return "", fmt.Errorf("whatsapp gateway: no qr code in response")
	}
	return resp.QRCode.Base64, nil
}

// Status polls the gateway's connection state; "open" means paired.
func (c *Client) Status(ctx context.Context, instance string) (StatusInfo, error) {
	var resp struct {
		Instance struct {
			ProfileName string `json:"profileName"`
		} `json:"instance"`
		ConnectionStatus string `json:"connectionStatus"`
	}

	path := fmt.Sprintf("/instance/connectionState/%s", instance)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return StatusInfo{State: "disconnected"}, err
	}

	return StatusInfo{
		Connected:   resp.ConnectionStatus == "open",
		State:       resp.ConnectionStatus,
		ProfileName: resp.Instance.ProfileName,
	}, nil
}

// SendMessage pushes a plain text message through the gateway.
func (c *Client) SendMessage(ctx context.Context, instance, number, text string) (*SendResult, error) {
	body := map[string]any{
		"number": number,
		"text":   text,
	}

	var resp struct {
		Key struct {
			ID string `json:"id"`
		} `json:"key"`
		MessageTimestamp int64 `json:"messageTimestamp"`
	}

	path := fmt.Sprintf("/message/sendText/%s", instance)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	c.log.Info().Str("number", number).Msg("whatsapp message sent")
	return &SendResult{MessageID: resp.Key.ID, Timestamp: resp.MessageTimestamp}, nil
}

// Disconnect logs the instance out; pairing requires a new QR scan.
func (c *Client) Disconnect(ctx context.Context, instance string) error {
	path := fmt.Sprintf("/instance/logout/%s", instance)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// SetWebhook points the gateway's event stream at our webhook route.
func (c *Client) SetWebhook(ctx context.Context, instance, url string) error {
	body := map[string]any{
		"url":               url,
		"webhook_by_events": true,
		"events": []string{
			"MESSAGES_UPSERT",
			"CONNECTION_UPDATE",
			"QRCODE_UPDATED",
		},
	}

	path := fmt.Sprintf("/webhook/set/%s", instance)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return &GatewayError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}
