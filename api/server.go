// Package api is the main api web server
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aouyang1/vitrine/api/models"
	"github.com/aouyang1/vitrine/export"
	"github.com/aouyang1/vitrine/photo"
	"github.com/aouyang1/vitrine/slides"
	"github.com/aouyang1/vitrine/store"
	"github.com/aouyang1/vitrine/studio"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type WebServer struct {
	router   *gin.Engine
	db       *store.Database
	exporter *export.Exporter
	sessions *studio.Sessions

	// filesDir is served under /files when objects are stored locally.
	filesDir string
}

type Option func(*WebServer)

// WithFiles serves locally stored objects from dir under /files.
func WithFiles(dir string) Option {
	return func(ws *WebServer) {
		ws.filesDir = dir
	}
}

func NewWebServer(db *store.Database, exporter *export.Exporter, opts ...Option) *WebServer {
	ws := &WebServer{
		router:   gin.New(),
		db:       db,
		exporter: exporter,
		sessions: studio.NewSessions(),
	}
	for _, opt := range opts {
		opt(ws)
	}
	ws.router.Use(gin.Recovery(), requestLogger())

	ws.setupRoutes()

	return ws
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}

func (ws *WebServer) setupRoutes() {
	if ws.filesDir != "" {
		ws.router.Static("/files", ws.filesDir)
	}

	ws.router.POST("/listings", ws.handleCreateListing)
	ws.router.GET("/listings/:id", ws.handleGetListing)

	ws.router.POST("/listings/:id/photos", ws.handleRegisterPhoto)
	ws.router.GET("/listings/:id/photos", ws.handleListPhotos)
	ws.router.DELETE("/listings/:id/photos", ws.handleDeletePhoto)
	ws.router.PUT("/listings/:id/photos/reorder", ws.handleReorderPhoto)

	ws.router.GET("/listings/:id/slides", ws.handleGetSlides)
	ws.router.PUT("/listings/:id/slides/active", ws.handleSelectSlide)
	ws.router.GET("/listings/:id/slides/:index/export", ws.handleExportSlide)
	ws.router.POST("/listings/:id/export", ws.handleExportAll)

	ws.router.GET("/settings", ws.handleGetSettings)
	ws.router.PUT("/settings", ws.handleUpdateSettings)

	ws.router.GET("/creatives", ws.handleListCreatives)
	ws.router.GET("/crm/properties", ws.handleListCRMProperties)
}

func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start serves until ctx is done, then shuts down gracefully.
func (ws *WebServer) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: ws.router}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// listingSubject loads the listing's photos and decodes what it advertises.
func (ws *WebServer) listingSubject(ctx context.Context, listing *store.Listing) (studio.Subject, *photo.Catalog, error) {
	id := listing.ID
	var subject studio.Subject
	switch listing.Kind {
	case store.KindManagement:
		subject.Management = &slides.ManagementData{}
		if err := json.Unmarshal(listing.Data, subject.Management); err != nil {
			return studio.Subject{}, nil, fmt.Errorf("failed to decode listing %s: %w", id, err)
		}
	default:
		subject.Property = &slides.PropertyData{}
		if err := json.Unmarshal(listing.Data, subject.Property); err != nil {
			return studio.Subject{}, nil, fmt.Errorf("failed to decode listing %s: %w", id, err)
		}
	}

	photos, err := ws.db.GetPhotos(ctx, id)
	if err != nil {
		return studio.Subject{}, nil, err
	}
	categorized := make([]photo.CategorizedPhoto, len(photos))
	for i, p := range photos {
		categorized[i] = p.Categorized()
	}
	return subject, photo.NewCatalog(categorized), nil
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}
