package handler

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"advoga/internal/middleware"
	"advoga/internal/models"
	"advoga/internal/repository"
	"advoga/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaseHandler struct {
	caseRepo     *repository.CaseRepository
	referralRepo *repository.ReferralRepository
	paymentRepo  *repository.PaymentRepository
	storage      storage.Storage
	reportPrice  int64
}

func NewCaseHandler(caseRepo *repository.CaseRepository, referralRepo *repository.ReferralRepository, paymentRepo *repository.PaymentRepository, st storage.Storage, reportPriceCents int64) *CaseHandler {
	return &CaseHandler{
		caseRepo:     caseRepo,
		referralRepo: referralRepo,
		paymentRepo:  paymentRepo,
		storage:      st,
		reportPrice:  reportPriceCents,
	}
}

type CreateCaseRequest struct {
	Description string `json:"description" binding:"required,min=20"`
	Area        string `json:"area" binding:"required"`
	SubArea     string `json:"sub_area"`
	City        string `json:"city"`
	State       string `json:"state" binding:"omitempty,len=2"`
}

func (h *CaseHandler) Create(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cs := &models.Case{
		UserID:      middleware.GetSubjectID(c),
		Description: req.Description,
		Area:        req.Area,
		SubArea:     req.SubArea,
		City:        req.City,
		State:       req.State,
	}
	if err := h.caseRepo.Create(cs); err != nil {
		log.Printf("[case] create failed: user=%d err=%v", cs.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create case"})
		return
	}
	c.JSON(http.StatusCreated, cs)
}

func (h *CaseHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	cases, err := h.caseRepo.ListByUser(middleware.GetSubjectID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list cases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

func (h *CaseHandler) Get(c *gin.Context) {
	cs := h.ownedCase(c)
	if cs == nil {
		return
	}
	refs, err := h.referralRepo.ListByCase(cs.ID)
	if err != nil {
		refs = nil
	}
	c.JSON(http.StatusOK, gin.H{
		"case":          cs,
		"quality_score": cs.QualityScore(),
		"referrals":     refs,
	})
}

// Checkout opens a payment for the case report. The provider reference goes
// back to the client, and the webhook closes the loop when the provider
// confirms.
func (h *CaseHandler) Checkout(c *gin.Context) {
	cs := h.ownedCase(c)
	if cs == nil {
		return
	}
	if cs.ReportPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "report already paid"})
		return
	}
	p := &models.Payment{
		CaseID:      cs.ID,
		AmountCents: h.reportPrice,
		Currency:    "BRL",
		Provider:    "mercadopago",
		ProviderRef: uuid.NewString(),
		Status:      "PENDING",
	}
	if err := h.paymentRepo.Create(p); err != nil {
		log.Printf("[case] checkout failed: case=%d err=%v", cs.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open payment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"payment_id":   p.ID,
		"reference":    p.ProviderRef,
		"amount_cents": p.AmountCents,
		"currency":     p.Currency,
	})
}

// DownloadReport streams the analysis report. Only available after the
// report purchase is confirmed.
func (h *CaseHandler) DownloadReport(c *gin.Context) {
	cs := h.ownedCase(c)
	if cs == nil {
		return
	}
	if !cs.ReportPaid || cs.ReportPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not available"})
		return
	}
	rc, err := h.storage.Download(c.Request.Context(), cs.ReportPath)
	if err != nil {
		log.Printf("[case] report download failed: case=%d path=%s err=%v", cs.ID, cs.ReportPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch report"})
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", "attachment; filename=report_"+cs.PublicID.String()+".pdf")
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func (h *CaseHandler) ownedCase(c *gin.Context) *models.Case {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return nil
	}
	cs, err := h.caseRepo.GetByID(uint(id))
	if err != nil || cs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return nil
	}
	if cs.UserID != middleware.GetSubjectID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return nil
	}
	return cs
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
