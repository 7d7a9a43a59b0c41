package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/models"
	"coursebook/services/booking"
)

type stubConfirmService struct {
	stubBookingService
	confirmErr    error
	confirmedWith string
}

func (s *stubConfirmService) ConfirmByPaymentIntent(_ context.Context, piID string) error {
	s.confirmedWith = piID
	return s.confirmErr
}

// signPayload builds a Stripe-Signature header value for the payload, the
// same scheme ConstructEvent verifies: HMAC-SHA256 over "<ts>.<payload>".
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentWebhookHandler(svc, zap.NewNop())
	r.POST("/payments/webhook", h.Handle)
	return r
}

func postWebhook(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func succeededIntentPayload(piID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","object":"event","api_version":%q,"type":"payment_intent.succeeded","data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		stripe.APIVersion, piID))
}

func TestWebhookConfirmsBooking(t *testing.T) {
	config.AppConfig.StripeWebhookSecret = "whsec_test"
	svc := &stubConfirmService{}
	r := newWebhookRouter(svc)

	payload := succeededIntentPayload("pi_1")
	w := postWebhook(r, payload, signPayload(payload, "whsec_test"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if svc.confirmedWith != "pi_1" {
		t.Errorf("confirmed payment intent = %q, want %q", svc.confirmedWith, "pi_1")
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	config.AppConfig.StripeWebhookSecret = "whsec_test"
	svc := &stubConfirmService{}
	r := newWebhookRouter(svc)

	payload := succeededIntentPayload("pi_1")
	w := postWebhook(r, payload, signPayload(payload, "whsec_other"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if svc.confirmedWith != "" {
		t.Error("booking confirmed despite a bad signature")
	}
}

func TestWebhookAcksReplay(t *testing.T) {
	config.AppConfig.StripeWebhookSecret = "whsec_test"
	svc := &stubConfirmService{confirmErr: &booking.StateConflictError{Status: models.BookingStatusConfirmed}}
	r := newWebhookRouter(svc)

	payload := succeededIntentPayload("pi_1")
	w := postWebhook(r, payload, signPayload(payload, "whsec_test"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on a replayed event", w.Code)
	}
}

func TestWebhookAcksSeatUnavailable(t *testing.T) {
	config.AppConfig.StripeWebhookSecret = "whsec_test"
	svc := &stubConfirmService{
		confirmErr: fmt.Errorf("%w: booking b1, session s1", booking.ErrSeatUnavailable),
	}
	r := newWebhookRouter(svc)

	// A full session cannot be fixed by replays; the event is acked so
	// Stripe stops retrying.
	payload := succeededIntentPayload("pi_1")
	w := postWebhook(r, payload, signPayload(payload, "whsec_test"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when the session is full", w.Code)
	}
}

func TestWebhookRetriesOnUpstreamFailure(t *testing.T) {
	config.AppConfig.StripeWebhookSecret = "whsec_test"
	svc := &stubConfirmService{confirmErr: fmt.Errorf("mongo unavailable")}
	r := newWebhookRouter(svc)

	payload := succeededIntentPayload("pi_1")
	w := postWebhook(r, payload, signPayload(payload, "whsec_test"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the event is retried", w.Code)
	}
}
