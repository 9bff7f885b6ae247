package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vit0-9/vt_scanner_api/models"
)

const (
	healthOK            = "ok"
	healthMissingAPIKey = "missing_api_key"
)

type HealthHandler struct {
	apiKeyConfigured bool
}

func NewHealthHandler(apiKeyConfigured bool) *HealthHandler {
	return &HealthHandler{apiKeyConfigured: apiKeyConfigured}
}

// HealthCheckHandler godoc
// @Summary      Health Check
// @Description  Reports whether a VirusTotal API key is configured. Never calls VirusTotal.
// @Tags         Monitoring
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := healthOK
	if !h.apiKeyConfigured {
		status = healthMissingAPIKey
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: status})
}
