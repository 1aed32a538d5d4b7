package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"offerlens/internal/auth"
	"offerlens/internal/models"
	"offerlens/internal/service/analyzer"
	"offerlens/internal/service/review"
)

const maxUploadBytes = 10 << 20 // 10 MB

var allowedContentTypes = []string{
	"text/plain",
	"application/pdf",
}

// Analyzer runs the full contract analysis pipeline for one user.
type Analyzer interface {
	Analyze(ctx context.Context, userID int64) (*models.AnalysisResult, error)
}

// BlobStore holds raw document bytes keyed by storage key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Handler wires HTTP routes to the review service and the analysis pipeline.
type Handler struct {
	review   *review.Service
	analyzer Analyzer
	blobs    BlobStore
}

// NewHandler constructs a Handler instance.
func NewHandler(reviewSvc *review.Service, pipeline Analyzer, blobs BlobStore) *Handler {
	return &Handler{
		review:   reviewSvc,
		analyzer: pipeline,
		blobs:    blobs,
	}
}

// check gateway userID is match with param userID
func (h *Handler) requirePathUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.UserIDFromContext(c)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		paramID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || paramID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		if paramID != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user mismatch"})
			return
		}
		c.Next()
	}
}

func (h *Handler) authorizedUserID(c *gin.Context) (int64, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return 0, false
	}
	return userID, true
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	userRoutes := api.Group("/users/:id")
	userRoutes.Use(auth.Middleware(), h.requirePathUser())
	userRoutes.POST("/analyze", h.runAnalysis)
	userRoutes.POST("/documents", h.uploadDocument)
	userRoutes.GET("/documents", h.listDocuments)
	userRoutes.DELETE("/documents/:doc_id", h.deleteDocument)
	userRoutes.GET("/intake", h.getIntake)
	userRoutes.POST("/intake", h.submitIntake)
	userRoutes.GET("/results", h.getResults)
	userRoutes.GET("/prebrief", h.getPrebrief)
	userRoutes.GET("/prebrief/notes", h.listPrebriefNotes)
	userRoutes.GET("/audit", h.listAuditLog)
}

func (h *Handler) runAnalysis(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	result, err := h.analyzer.Analyze(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrNoDocuments):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no documents found, upload an offer first"})
		case errors.Is(err, analyzer.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "analysis already in progress"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prebrief":  result.Prebrief,
		"clauses":   result.Clauses,
		"summary":   result.Summary,
		"synthetic": result.Synthetic,
	})
}

func isAllowedContentType(ct string) bool {
	for _, allowed := range allowedContentTypes {
		if strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

func (h *Handler) uploadDocument(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open file failed"})
		return
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read file failed"})
		return
	}
	contentType := http.DetectContentType(data)
	if !isAllowedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	filename := filepath.Base(file.Filename)
	key := fmt.Sprintf("users/%d/%d-%s", userID, time.Now().UnixNano(), filename)
	if err := h.blobs.Put(c.Request.Context(), key, contentType, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store file failed"})
		return
	}
	doc, err := h.review.RecordDocument(c.Request.Context(), models.ContractDocument{
		UserID:     userID,
		Filename:   filename,
		FileType:   contentType,
		StorageKey: key,
		Notes:      c.PostForm("notes"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	docs, err := h.review.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if docs == nil {
		docs = make([]models.ContractDocument, 0)
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) deleteDocument(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(c.Param("doc_id"), 10, 64)
	if err != nil || docID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}
	key, err := h.review.DeleteDocument(c.Request.Context(), userID, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.blobs.Delete(c.Request.Context(), key); err != nil {
		// record is gone, the orphaned blob only wastes space
		log.Printf("[api] delete blob %s failed: %v", key, err)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getIntake(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	profile, err := h.review.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "intake not submitted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type intakeRequest struct {
	RoleTitle        string   `json:"role_title"`
	Level            string   `json:"level"`
	Industry         string   `json:"industry"`
	Situation        string   `json:"situation"`
	TargetCompBase   int64    `json:"target_comp_base"`
	TargetCompBonus  int64    `json:"target_comp_bonus"`
	TargetCompEquity int64    `json:"target_comp_equity"`
	TargetCompTotal  int64    `json:"target_comp_total"`
	Priorities       []string `json:"priorities"`
	ConfidenceRating int      `json:"confidence_rating"`
	NegotiationStyle int      `json:"negotiation_style"`
	Reflection       string   `json:"reflection"`
}

func (h *Handler) submitIntake(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	profile := &models.NegotiationProfile{
		UserID:           userID,
		RoleTitle:        strings.TrimSpace(req.RoleTitle),
		Level:            strings.TrimSpace(req.Level),
		Industry:         strings.TrimSpace(req.Industry),
		Situation:        strings.TrimSpace(req.Situation),
		TargetCompBase:   req.TargetCompBase,
		TargetCompBonus:  req.TargetCompBonus,
		TargetCompEquity: req.TargetCompEquity,
		TargetCompTotal:  req.TargetCompTotal,
		Priorities:       req.Priorities,
		ConfidenceRating: req.ConfidenceRating,
		NegotiationStyle: req.NegotiationStyle,
		Reflection:       req.Reflection,
	}
	if profile.RoleTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_title is required"})
		return
	}
	if err := h.review.UpsertProfile(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getResults(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	result, err := h.review.CurrentResults(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clauses":   result.Clauses,
		"summary":   result.Summary,
		"synthetic": result.Synthetic,
	})
}

func (h *Handler) getPrebrief(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	prebrief, err := h.review.GetPrebrief(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prebrief not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prebrief)
}

func (h *Handler) listAuditLog(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.review.RecentAuditLog(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) listPrebriefNotes(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	prebrief, err := h.review.GetPrebrief(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prebrief not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	notes, err := h.review.ListReviewerNotes(c.Request.Context(), prebrief.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prebrief": prebrief, "notes": notes})
}
