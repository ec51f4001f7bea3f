package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/diabetes-risk-server/internal/domain"
	"github.com/diabetes-risk-server/internal/service"
)

// Handler serves the assessment endpoints. The engine is deterministic,
// so identical payloads are answered from an in-process LRU cache.
type Handler struct {
	logger   *logrus.Logger
	assessor *service.AssessorService
	cache    *lru.Cache[string, *domain.AssessmentResult]
	maxBatch int
}

// NewHandler creates the endpoint handler. cacheSize <= 0 disables the
// response cache.
func NewHandler(logger *logrus.Logger, assessor *service.AssessorService, cacheSize, maxBatch int) (*Handler, error) {
	h := &Handler{
		logger:   logger,
		assessor: assessor,
		maxBatch: maxBatch,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, *domain.AssessmentResult](cacheSize)
		if err != nil {
			return nil, err
		}
		h.cache = cache
	}
	return h, nil
}

// handleHealth answers liveness probes. No auth, no rate limit.
func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": h.assessor.ModelLoaded(),
		"timestamp":    time.Now().UTC(),
	})
}

// handlePredict assesses a single patient.
func (h *Handler) handlePredict(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		h.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "No data provided", "")
		return
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		h.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Request body must be a JSON object", err.Error())
		return
	}

	if missing := missingRequiredFields(payload); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          domain.NewValidationError(missing...).Error(),
			"code":           domain.ErrInvalidInput,
			"missing_fields": missing,
		})
		return
	}

	cacheKey := h.cacheKey(body)
	if h.cache != nil {
		if cached, ok := h.cache.Get(cacheKey); ok {
			h.logger.WithField("correlation_id", c.GetString("correlation_id")).Debug("Assessment served from cache")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	req := decodeAssessmentRequest(payload)
	result, err := h.assessor.Assess(c.Request.Context(), &req.Measurement, &req.Flags)
	if err != nil {
		h.respondAssessmentError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.Add(cacheKey, result)
	}
	c.JSON(http.StatusOK, result)
}

// batchItemResult is one entry of the batch response: either a full
// assessment or a per-item error record. One patient's failure never
// affects the others.
type batchItemResult struct {
	PatientID int    `json:"patient_id"`
	*domain.AssessmentResult
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// handleBatchPredict assesses multiple patients with per-item failure
// isolation.
func (h *Handler) handleBatchPredict(c *gin.Context) {
	var body struct {
		Patients []map[string]json.RawMessage `json:"patients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Patients == nil {
		h.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "No patients data provided", "")
		return
	}
	if len(body.Patients) > h.maxBatch {
		h.respondError(c, http.StatusBadRequest, domain.ErrInvalidInput, "Batch too large", "")
		return
	}

	results := make([]batchItemResult, 0, len(body.Patients))
	successful := 0
	for i, patient := range body.Patients {
		item := batchItemResult{PatientID: i}
		if missing := missingRequiredFields(patient); len(missing) > 0 {
			item.Error = domain.NewValidationError(missing...).Error()
			item.Code = domain.ErrInvalidInput
			results = append(results, item)
			continue
		}

		req := decodeAssessmentRequest(patient)
		result, err := h.assessor.Assess(c.Request.Context(), &req.Measurement, &req.Flags)
		if err != nil {
			item.Error = err.Error()
			item.Code = errorCode(err)
			results = append(results, item)
			continue
		}
		item.AssessmentResult = result
		successful++
		results = append(results, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions":            results,
		"total_patients":         len(body.Patients),
		"successful_predictions": successful,
	})
}

// handleModelInfo describes the loaded classifier.
func (h *Handler) handleModelInfo(c *gin.Context) {
	info, err := h.assessor.ModelInfo()
	if err != nil {
		h.respondAssessmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model_type":         info.ModelType,
		"features":           info.Features,
		"feature_importance": info.FeatureImportance,
		"version":            info.Version,
		"model_loaded":       true,
	})
}

func (h *Handler) cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func (h *Handler) respondAssessmentError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	var unavailable *domain.ModelUnavailableError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          validation.Error(),
			"code":           domain.ErrInvalidInput,
			"missing_fields": validation.MissingFields,
		})
	case errors.As(err, &unavailable):
		h.respondError(c, http.StatusServiceUnavailable, domain.ErrModelUnavailable,
			"Model not loaded. Please ensure the model is trained and saved.", "")
	default:
		h.logger.WithError(err).WithField("correlation_id", c.GetString("correlation_id")).Error("Assessment failed")
		h.respondError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Prediction failed", err.Error())
	}
}

func (h *Handler) respondError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, domain.NewAssessmentError(code, message, details, c.GetString("correlation_id")))
}

func errorCode(err error) string {
	var validation *domain.ValidationError
	var unavailable *domain.ModelUnavailableError
	switch {
	case errors.As(err, &validation):
		return domain.ErrInvalidInput
	case errors.As(err, &unavailable):
		return domain.ErrModelUnavailable
	default:
		return domain.ErrInternalServer
	}
}
