package handler

import (
	"log"
	"net/http"
	"time"

	"advoga/internal/repository"
	"advoga/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	dispatch     *service.DispatchService
	referralSvc  *service.ReferralService
	caseRepo     *repository.CaseRepository
	referralRepo *repository.ReferralRepository
	lawyerRepo   *repository.LawyerRepository
}

func NewAdminHandler(dispatch *service.DispatchService, referralSvc *service.ReferralService, caseRepo *repository.CaseRepository, referralRepo *repository.ReferralRepository, lawyerRepo *repository.LawyerRepository) *AdminHandler {
	return &AdminHandler{
		dispatch:     dispatch,
		referralSvc:  referralSvc,
		caseRepo:     caseRepo,
		referralRepo: referralRepo,
		lawyerRepo:   lawyerRepo,
	}
}

// Stats reports referral volumes per status plus offers expiring in the next
// two hours, the numbers the operations dashboard polls.
func (h *AdminHandler) Stats(c *gin.Context) {
	byStatus, err := h.referralRepo.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	expiring, err := h.referralRepo.CountExpiringWithin(time.Now(), 2*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"referrals_by_status": byStatus,
		"expiring_soon":       expiring,
	})
}

// UnassignableCases lists paid cases with no live or accepted referral, the
// ones waiting on an operator or a new eligible lawyer.
func (h *AdminHandler) UnassignableCases(c *gin.Context) {
	cases, err := h.caseRepo.ListUnassignable(100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list cases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

type AssignRequest struct {
	CaseID   uint `json:"case_id" binding:"required"`
	LawyerID uint `json:"lawyer_id"`
}

// AssignLead dispatches a case by hand. With a lawyer_id every other lawyer
// is excluded, so the pick lands on that lawyer or nobody.
func (h *AdminHandler) AssignLead(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var excluded map[uint]struct{}
	if req.LawyerID != 0 {
		l, err := h.lawyerRepo.GetByID(req.LawyerID)
		if err != nil || l == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lawyer not found"})
			return
		}
		candidates, err := h.lawyerRepo.EligibleCandidates("", time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load candidates"})
			return
		}
		excluded = make(map[uint]struct{}, len(candidates))
		for _, cand := range candidates {
			if cand.Lawyer.ID != req.LawyerID {
				excluded[cand.Lawyer.ID] = struct{}{}
			}
		}
	}
	assigned, err := h.dispatch.TryAssign(req.CaseID, excluded)
	if err != nil {
		log.Printf("[admin] manual assign failed: case=%d err=%v", req.CaseID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assign"})
		return
	}
	if !assigned {
		c.JSON(http.StatusConflict, gin.H{"error": "no eligible lawyer for this case"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": true})
}

// Sweep expires lapsed offers on demand instead of waiting for the sweeper.
func (h *AdminHandler) Sweep(c *gin.Context) {
	n, err := h.referralSvc.SweepExpired()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

// VerifyLawyer flips the manual verification flag set after OAB review.
func (h *AdminHandler) VerifyLawyer(c *gin.Context) {
	var req struct {
		LawyerID uint `json:"lawyer_id" binding:"required"`
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.lawyerRepo.SetVerified(req.LawyerID, req.Verified); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update lawyer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
