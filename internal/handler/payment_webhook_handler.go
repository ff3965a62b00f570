package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"advoga/config"
	"advoga/internal/repository"
	"advoga/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler confirms report purchases. The provider retries
// deliveries, so the handler is idempotent end to end: a replayed event finds
// the payment already approved and acks without side effects.
type PaymentWebhookHandler struct {
	paymentRepo *repository.PaymentRepository
	caseRepo    *repository.CaseRepository
	dispatch    *service.DispatchService
	cfg         *config.Config
}

func NewPaymentWebhookHandler(paymentRepo *repository.PaymentRepository, caseRepo *repository.CaseRepository, dispatch *service.DispatchService, cfg *config.Config) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{paymentRepo: paymentRepo, caseRepo: caseRepo, dispatch: dispatch, cfg: cfg}
}

// Handle expects JSON: { "reference": "...", "status": "approved" } with an
// X-Webhook-Signature HMAC over the raw body.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if h.cfg.Payment.WebhookSecret != "" {
		if !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var payload struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}
	p, err := h.paymentRepo.GetByProviderRef(payload.Reference)
	if err != nil || p == nil {
		// unknown reference: ack so the provider stops retrying
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if payload.Status != "approved" && payload.Status != "APPROVED" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	now := time.Now()
	if err := h.paymentRepo.MarkApproved(p.ID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	flipped, err := h.caseRepo.MarkPaid(p.CaseID, now)
	if err != nil {
		log.Printf("[webhook] mark paid failed: case=%d err=%v", p.CaseID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if flipped {
		if err := h.dispatch.OnCasePaid(p.CaseID); err != nil {
			// the case is paid; the sweeper or an operator picks it up later
			log.Printf("[webhook] dispatch after payment failed: case=%d err=%v", p.CaseID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentWebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.cfg.Payment.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
