package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"advoga/internal/domain"
	"advoga/internal/repository"
	"advoga/pkg/storage"

	"github.com/gin-gonic/gin"
)

// PipelineHandler receives results from the external case-analysis pipeline.
// Routes using it sit behind the internal token middleware.
type PipelineHandler struct {
	caseRepo *repository.CaseRepository
	storage  storage.Storage
}

func NewPipelineHandler(caseRepo *repository.CaseRepository, st storage.Storage) *PipelineHandler {
	return &PipelineHandler{caseRepo: caseRepo, storage: st}
}

type AnalysisRequest struct {
	Typification     string  `json:"typification" binding:"required"`
	Strategies       string  `json:"strategies"`
	Risks            string  `json:"risks"`
	Probability      string  `json:"probability" binding:"required,oneof=low medium high"`
	CostEstimate     string  `json:"cost_estimate"`
	TimelineEstimate string  `json:"timeline_estimate"`
	ScoreProb        float64 `json:"score_prob" binding:"gte=0,lte=100"`
}

func (h *PipelineHandler) PutAnalysis(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return
	}
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cs, err := h.caseRepo.GetByID(uint(id))
	if err != nil || cs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return
	}
	now := time.Now()
	cs.Typification = req.Typification
	cs.Strategies = req.Strategies
	cs.Risks = req.Risks
	cs.Probability = req.Probability
	cs.CostEstimate = req.CostEstimate
	cs.TimelineEstimate = req.TimelineEstimate
	cs.ScoreProb = req.ScoreProb
	cs.AnalyzedAt = &now
	if cs.Status == domain.CaseStatusPending {
		cs.Status = domain.CaseStatusAnalyzed
	}
	if err := h.caseRepo.Update(cs); err != nil {
		log.Printf("[pipeline] analysis update failed: case=%d err=%v", cs.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": cs})
}

func (h *PipelineHandler) PutReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return
	}
	cs, err := h.caseRepo.GetByID(uint(id))
	if err != nil || cs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return
	}
	fh, err := c.FormFile("report")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()
	path, err := h.storage.Upload(c.Request.Context(), cs.PublicID, fh.Filename, f)
	if err != nil {
		log.Printf("[pipeline] report upload failed: case=%d err=%v", cs.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store report"})
		return
	}
	cs.ReportPath = path
	if err := h.caseRepo.Update(cs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update case"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stored": true, "path": path})
}
