package conversation

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"estate_assistant_backend/platform/logger"
)

// pipelineTimeout bounds one message's background processing, covering the
// model calls, outbound deliveries, and the full CRM retry schedule.
const pipelineTimeout = 2 * time.Minute

// Handler receives WhatsApp Cloud API webhook calls.
type Handler struct {
	svc         *Service
	verifyToken string
	log         *logger.Logger
}

// NewHandler creates the webhook handler.
func NewHandler(svc *Service, verifyToken string, log *logger.Logger) *Handler {
	return &Handler{svc: svc, verifyToken: verifyToken, log: log}
}

// webhookPayload mirrors the Cloud API delivery envelope down to the fields
// this pipeline consumes.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Verify answers the Meta webhook handshake.
// GET /webhook
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token == h.verifyToken {
		h.log.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// Receive accepts an inbound message delivery. A well-formed message is
// always acknowledged with 200 before processing completes; backend
// failures never reach the channel. Malformed or empty deliveries (status
// updates, media without text) are acknowledged and dropped so upstream
// retries are not provoked.
// POST /webhook
func (h *Handler) Receive(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Status(http.StatusOK)
		return
	}

	sender, text, ok := firstTextMessage(payload)
	if !ok {
		c.Status(http.StatusOK)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()
		h.svc.HandleMessage(ctx, sender, text)
	}()

	c.Status(http.StatusOK)
}

func firstTextMessage(payload webhookPayload) (sender, text string, ok bool) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, message := range change.Value.Messages {
				if message.From == "" || message.Text == nil || message.Text.Body == "" {
					continue
				}
				return message.From, message.Text.Body, true
			}
		}
	}
	return "", "", false
}
