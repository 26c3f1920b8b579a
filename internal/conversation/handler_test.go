package conversation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newWebhookRouter(p *pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(p.svc, "secret-token", p.svc.log)

	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func TestVerifyHandshake(t *testing.T) {
	r := newWebhookRouter(newPipeline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "12345" {
		t.Fatalf("expected challenge echo, got %q", w.Body.String())
	}
}

func TestVerifyRejectsBadToken(t *testing.T) {
	r := newWebhookRouter(newPipeline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestVerifyRejectsMissingMode(t *testing.T) {
	r := newWebhookRouter(newPipeline())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=secret-token&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestReceiveProcessesTextMessage(t *testing.T) {
	p := newPipeline()
	r := newWebhookRouter(p)

	body := `{"entry":[{"changes":[{"value":{"messages":[{"from":"233200000001","text":{"body":"hello"}}]}}]}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected immediate 200 ack, got %d", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(p.messenger.sentTexts()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("pipeline never sent a reply")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReceiveAcknowledgesMalformedPayloads(t *testing.T) {
	p := newPipeline()
	r := newWebhookRouter(p)

	cases := []string{
		`not json at all`,
		`{}`,
		`{"entry":[]}`,
		`{"entry":[{"changes":[{"value":{"messages":[]}}]}]}`,
		`{"entry":[{"changes":[{"value":{"messages":[{"from":"233200000001"}]}}]}]}`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected 200 ack, got %d", body, w.Code)
		}
	}

	time.Sleep(50 * time.Millisecond)
	if texts := p.messenger.sentTexts(); len(texts) != 0 {
		t.Fatalf("malformed deliveries must be dropped, got replies %v", texts)
	}
}
