package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"advoga/internal/domain"
	"advoga/internal/middleware"
	"advoga/internal/repository"
	"advoga/internal/service"

	"github.com/gin-gonic/gin"
)

type LawyerHandler struct {
	referralSvc  *service.ReferralService
	lawyerRepo   *repository.LawyerRepository
	referralRepo *repository.ReferralRepository
	subsRepo     *repository.SubscriptionRepository
	notifRepo    *repository.NotificationRepository
}

func NewLawyerHandler(referralSvc *service.ReferralService, lawyerRepo *repository.LawyerRepository, referralRepo *repository.ReferralRepository, subsRepo *repository.SubscriptionRepository, notifRepo *repository.NotificationRepository) *LawyerHandler {
	return &LawyerHandler{
		referralSvc:  referralSvc,
		lawyerRepo:   lawyerRepo,
		referralRepo: referralRepo,
		subsRepo:     subsRepo,
		notifRepo:    notifRepo,
	}
}

// Feed lists the lawyer's live pending referrals with their cases.
func (h *LawyerHandler) Feed(c *gin.Context) {
	lawyerID := middleware.GetSubjectID(c)
	refs, err := h.referralRepo.ListPendingByLawyer(lawyerID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load feed"})
		return
	}
	type feedItem struct {
		ReferralID   uint        `json:"referral_id"`
		ExpiresAt    interface{} `json:"expires_at"`
		Case         interface{} `json:"case"`
		QualityScore int         `json:"quality_score"`
	}
	items := make([]feedItem, 0, len(refs))
	for i := range refs {
		items = append(items, feedItem{
			ReferralID:   refs[i].ID,
			ExpiresAt:    refs[i].ExpiresAt,
			Case:         refs[i].Case,
			QualityScore: refs[i].Case.QualityScore(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"leads": items})
}

func (h *LawyerHandler) AcceptLead(c *gin.Context) {
	caseID, err := strconv.ParseUint(c.Param("case_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return
	}
	lawyerID := middleware.GetSubjectID(c)
	result, err := h.referralSvc.Accept(lawyerID, uint(caseID))
	if err != nil {
		switch err {
		case domain.ErrReferralNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending lead for this case"})
		case domain.ErrReferralExpired:
			c.JSON(http.StatusGone, gin.H{"error": "lead offer expired"})
		default:
			log.Printf("[lawyer] accept failed: lawyer=%d case=%d err=%v", lawyerID, caseID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept lead"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

type RejectLeadRequest struct {
	Reason string `json:"reason"`
}

func (h *LawyerHandler) RejectLead(c *gin.Context) {
	caseID, err := strconv.ParseUint(c.Param("case_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return
	}
	var req RejectLeadRequest
	_ = c.ShouldBindJSON(&req)
	lawyerID := middleware.GetSubjectID(c)
	if err := h.referralSvc.Reject(lawyerID, uint(caseID), req.Reason); err != nil {
		switch err {
		case domain.ErrReferralNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending lead for this case"})
		case domain.ErrReferralExpired:
			c.JSON(http.StatusGone, gin.H{"error": "lead offer expired"})
		default:
			log.Printf("[lawyer] reject failed: lawyer=%d case=%d err=%v", lawyerID, caseID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject lead"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

func (h *LawyerHandler) Stats(c *gin.Context) {
	stats, err := h.lawyerRepo.Stats(middleware.GetSubjectID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type SubscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

func (h *LawyerHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lawyerID := middleware.GetSubjectID(c)
	sub, err := h.subsRepo.Subscribe(lawyerID, req.PlanID, time.Now())
	if err != nil {
		log.Printf("[lawyer] subscribe failed: lawyer=%d plan=%d err=%v", lawyerID, req.PlanID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not subscribe"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *LawyerHandler) Plans(c *gin.Context) {
	plans, err := h.subsRepo.ListPlans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *LawyerHandler) Notifications(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.notifRepo.ListByLawyer(middleware.GetSubjectID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *LawyerHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.notifRepo.MarkRead(middleware.GetSubjectID(c), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
