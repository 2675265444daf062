package apps

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storesearch/internal/lookup"
	"storesearch/internal/metrics"
	"storesearch/pkg/models"
)

// Fetcher is the lookup capability the handler depends on.
type Fetcher interface {
	FetchBasicInfo(ctx context.Context, app *models.App, opts lookup.Options) (bool, error)
}

type Handler struct {
	Router  Fetcher
	Metrics *metrics.Metrics
}

func NewHandler(router Fetcher, m *metrics.Metrics) *Handler {
	return &Handler{Router: router, Metrics: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/apps/:platform_id", h.lookup) // GET /apps/ios?id=...&country=...&lang=...
}

func (h *Handler) lookup(c *gin.Context) {
	requestID := uuid.NewString()
	platform := c.Param("platform_id")
	app := models.NewApp(c.Query("id"), platform)

	opts := lookup.Options{
		LanguageCode:         c.Query("lang"),
		CountryCode:          c.Query("country"),
		FallbackCountryCodes: splitList(c.Query("fallback_countries")),
	}

	start := time.Now()
	found, err := h.Router.FetchBasicInfo(c.Request.Context(), app, opts)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		status, outcome, payload := errorResponse(err, requestID)
		h.Metrics.ObserveLookup(platform, outcome, elapsed)
		c.JSON(status, payload)
		return
	}

	if !found {
		h.Metrics.ObserveLookup(platform, "not_found", elapsed)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "request_id": requestID})
		return
	}

	h.Metrics.ObserveLookup(platform, "found", elapsed)
	c.JSON(http.StatusOK, gin.H{"app": app})
}

// errorResponse maps a lookup failure kind onto an HTTP status, a
// metrics outcome label and the response body. Error detail strings
// are passed through untruncated.
func errorResponse(err error, requestID string) (int, string, gin.H) {
	var (
		validation     *lookup.ValidationError
		invalidCountry *lookup.InvalidCountryError
		malformed      *lookup.MalformedResponseError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation_error", gin.H{
			"error":      validation.Error(),
			"errors":     validation.Errors,
			"request_id": requestID,
		}
	case errors.As(err, &invalidCountry):
		return http.StatusUnprocessableEntity, "invalid_country", gin.H{
			"error":      invalidCountry.Error(),
			"request_id": requestID,
		}
	case errors.As(err, &malformed):
		return http.StatusBadGateway, "malformed_response", gin.H{
			"error":      malformed.Error(),
			"request_id": requestID,
		}
	default:
		return http.StatusBadGateway, "request_error", gin.H{
			"error":      err.Error(),
			"request_id": requestID,
		}
	}
}

// splitList parses a comma separated query value, dropping blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
