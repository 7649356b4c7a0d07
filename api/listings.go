package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aouyang1/vitrine/api/models"
	"github.com/aouyang1/vitrine/photo"
	"github.com/aouyang1/vitrine/store"
	"github.com/aouyang1/vitrine/util"
	"github.com/gin-gonic/gin"
)

func (ws *WebServer) handleCreateListing(c *gin.Context) {
	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user_id is required"})
		return
	}

	var data any
	title := strings.TrimSpace(req.Title)
	switch req.Kind {
	case "", store.KindProperty:
		if req.Property == nil || req.Management != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "property listings need property data only"})
			return
		}
		req.Kind = store.KindProperty
		data = req.Property
		if title == "" {
			title = req.Property.Title
		}
	case store.KindManagement:
		if req.Management == nil || req.Property != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "management listings need management data only"})
			return
		}
		data = req.Management
		if title == "" {
			title = req.Management.CompanyName
		}
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("kind must be %q or %q", store.KindProperty, store.KindManagement)})
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid listing data: %v", err)})
		return
	}

	listing := &store.Listing{UserID: req.UserID, Kind: req.Kind, Title: title, Data: raw}
	if err := ws.db.CreateListing(c.Request.Context(), listing); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to create listing: %v", err)})
		return
	}

	c.JSON(http.StatusCreated, models.ListingResponse{Listing: *listing, Photos: []store.Photo{}})
}

func (ws *WebServer) handleGetListing(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := ws.db.GetListing(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	photos, err := ws.db.GetPhotos(ctx, listing.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if photos == nil {
		photos = []store.Photo{}
	}

	c.JSON(http.StatusOK, models.ListingResponse{Listing: *listing, Photos: photos})
}

func (ws *WebServer) handleRegisterPhoto(c *gin.Context) {
	ctx := c.Request.Context()
	listingID := c.Param("id")

	var req models.RegisterPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.URL == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "url is required"})
		return
	}

	category, err := photo.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if !util.SupportedImageURL(req.URL) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Unsupported image url: %s. Supported: %s", req.URL, strings.Join(util.SupportedExt.ToSlice(), ", ")),
		})
		return
	}

	if _, err := ws.db.GetListing(ctx, listingID); err != nil {
		abortWithError(c, err)
		return
	}

	// Check for duplicates in database
	exists, err := ws.db.PhotoExists(ctx, listingID, req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if exists {
		c.JSON(http.StatusOK, models.RegisterPhotoResponse{
			URL:      req.URL,
			Category: category,
			Order:    -1,
			Message:  fmt.Sprintf("Photo '%s' already exists in listing", req.URL),
		})
		return
	}

	maxOrder, err := ws.db.GetMaxOrder(ctx, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	if err := ws.db.InsertPhoto(ctx, listingID, req.URL, category, maxOrder); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to insert photo into database: %v", err)})
		return
	}
	ws.sessions.Invalidate(listingID)

	c.JSON(http.StatusOK, models.RegisterPhotoResponse{
		URL:      req.URL,
		Category: category,
		Order:    maxOrder,
		Message:  "Photo registered successfully",
	})
}

func (ws *WebServer) handleListPhotos(c *gin.Context) {
	ctx := c.Request.Context()
	listingID := c.Param("id")

	if _, err := ws.db.GetListing(ctx, listingID); err != nil {
		abortWithError(c, err)
		return
	}

	photos, err := ws.db.GetPhotos(ctx, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}
	if photos == nil {
		photos = []store.Photo{}
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{Photos: photos, Total: len(photos)})
}

func (ws *WebServer) handleDeletePhoto(c *gin.Context) {
	listingID := c.Param("id")
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "url query parameter is required"})
		return
	}

	if err := ws.db.DeletePhoto(c.Request.Context(), listingID, url); err != nil {
		abortWithError(c, err)
		return
	}
	ws.sessions.Invalidate(listingID)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Photo '%s' deleted successfully", url)})
}

func (ws *WebServer) handleReorderPhoto(c *gin.Context) {
	ctx := c.Request.Context()
	listingID := c.Param("id")

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.NewOrder < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "new_order must be non-negative"})
		return
	}

	if _, err := ws.db.GetPhoto(ctx, listingID, req.URL); err != nil {
		abortWithError(c, err)
		return
	}

	// Get max order to validate new_order
	maxOrder, err := ws.db.GetMaxOrder(ctx, listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	if req.NewOrder >= maxOrder {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("new_order %d exceeds maximum order %d for listing %s", req.NewOrder, maxOrder-1, listingID),
		})
		return
	}

	if err := ws.db.UpdatePhotoOrder(ctx, listingID, req.URL, req.NewOrder); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update photo order: %v", err)})
		return
	}
	ws.sessions.Invalidate(listingID)

	updated, err := ws.db.GetPhoto(ctx, listingID, req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to retrieve updated photo: %v", err)})
		return
	}

	c.JSON(http.StatusOK, updated)
}
