package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"price-intel-service/internal/pricing"
	"price-intel-service/internal/service"
	"price-intel-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	observations *service.ObservationService
	costs        *service.CostService
	importer     *service.ImportService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	observations *service.ObservationService,
	costs *service.CostService,
	importer *service.ImportService,
) *Handler {
	return &Handler{
		observations: observations,
		costs:        costs,
		importer:     importer,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/observations", h.createObservation)
		v1.GET("/observations/:id", h.getObservation)
		v1.DELETE("/observations/:id", h.archiveObservation)
		v1.POST("/observations/import", h.importObservations)
		v1.GET("/duplicate-groups", h.listDuplicateGroups)
		v1.PUT("/skus/:id/costs", h.upsertCost)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, pricing.ErrMissingPrice) ||
		errors.Is(err, pricing.ErrMissingCartonUnits) ||
		errors.Is(err, pricing.ErrInvalidAmount)
}

// createObservation handles manual entry of one price observation
func (h *Handler) createObservation(c *gin.Context) {
	var req service.RecordObservationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.observations.RecordObservation(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":   "Failed to record observation",
			"details": err.Error(),
		})
		return
	}

	// A duplicate is a normal outcome: report the existing record instead
	// of creating a second one.
	if resp.Duplicate {
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getObservation handles get observation by ID
func (h *Handler) getObservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid observation ID",
		})
		return
	}

	obs, err := h.observations.GetObservation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Observation not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, obs)
}

// archiveObservation soft deletes an observation
func (h *Handler) archiveObservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid observation ID",
		})
		return
	}

	if err := h.observations.ArchiveObservation(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to archive observation",
			"details": err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// importObservations handles a CSV import batch posted as the request body
func (h *Handler) importObservations(c *gin.Context) {
	report, err := h.importer.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Import failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// listDuplicateGroups lists active observations sharing an identity hash
func (h *Handler) listDuplicateGroups(c *gin.Context) {
	groups, err := h.observations.DuplicateGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list duplicate groups",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"count":  len(groups),
	})
}

// upsertCost creates or updates a cost record for a SKU
func (h *Handler) upsertCost(c *gin.Context) {
	skuID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid SKU ID",
		})
		return
	}

	var req service.UpsertCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	rec, err := h.costs.UpsertCost(c.Request.Context(), skuID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to upsert cost record",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
