package api

import (
	"fmt"
	"net/http"

	"github.com/aouyang1/vitrine/api/models"
	"github.com/aouyang1/vitrine/store"
	"github.com/gin-gonic/gin"
)

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.db.GetExportSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.Quality <= 0 || req.Quality > 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "quality must be in (0, 1]"})
		return
	}
	if req.PixelDensity < 1 || req.PixelDensity > 4 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pixel_density must be between 1 and 4"})
		return
	}

	settings := &store.ExportSettings{Quality: req.Quality, PixelDensity: req.PixelDensity}
	if err := ws.db.UpsertExportSettings(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleListCreatives(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user_id query parameter is required"})
		return
	}

	creatives, err := ws.db.ListCreatives(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if creatives == nil {
		creatives = []store.Creative{}
	}

	c.JSON(http.StatusOK, models.CreativeListResponse{Creatives: creatives})
}

func (ws *WebServer) handleListCRMProperties(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user_id query parameter is required"})
		return
	}

	properties, err := ws.db.ListCRMProperties(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if properties == nil {
		properties = []store.CRMProperty{}
	}

	c.JSON(http.StatusOK, models.CRMPropertyListResponse{Properties: properties})
}
