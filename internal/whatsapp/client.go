// Package whatsapp delivers outbound messages through the WhatsApp Business
// Cloud API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"estate_assistant_backend/internal/config"
	"estate_assistant_backend/platform/logger"
	"estate_assistant_backend/platform/phone"
)

// Client sends messages via the Graph API messages endpoint.
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	http          *http.Client
	log           *logger.Logger
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type imagePayload struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Image            imageBody `json:"image"`
}

type imageBody struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

// NewClient creates a WhatsApp client from configuration.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.WhatsAppGraphBaseURL, "/"),
		accessToken:   cfg.WhatsAppAccessToken,
		phoneNumberID: cfg.WhatsAppPhoneNumberID,
		http:          &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to string, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               phone.NormalizeWaID(to),
		Type:             "text",
		Text:             textBody{Body: body},
	}
	return c.post(ctx, payload)
}

// SendImage delivers an image by URL with an optional caption.
func (c *Client) SendImage(ctx context.Context, to string, link string, caption string) error {
	payload := imagePayload{
		MessagingProduct: "whatsapp",
		To:               phone.NormalizeWaID(to),
		Type:             "image",
		Image:            imageBody{Link: link, Caption: caption},
	}
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}
