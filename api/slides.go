package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aouyang1/vitrine/api/models"
	"github.com/aouyang1/vitrine/export"
	"github.com/aouyang1/vitrine/photo"
	"github.com/aouyang1/vitrine/raster"
	"github.com/aouyang1/vitrine/slides"
	"github.com/aouyang1/vitrine/store"
	"github.com/aouyang1/vitrine/studio"
	"github.com/aouyang1/vitrine/util"
	"github.com/gin-gonic/gin"
)

type session struct {
	listing *store.Listing
	subject studio.Subject
	catalog *photo.Catalog
	studio  *studio.Studio
}

// session loads the listing and its preview studio, built on first use in the
// feed format.
func (ws *WebServer) session(c *gin.Context) (*session, bool) {
	ctx := c.Request.Context()
	listing, err := ws.db.GetListing(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}

	// photos are read inside create so a concurrent photo change can not leave
	// a studio built from the previous catalog behind
	st, err := ws.sessions.Get(listing.ID, func() (*studio.Studio, error) {
		subject, catalog, err := ws.listingSubject(ctx, listing)
		if err != nil {
			return nil, err
		}
		return studio.New(subject, catalog, slides.Feed), nil
	})
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return &session{listing: listing, subject: st.Subject(), catalog: st.Catalog(), studio: st}, true
}

func queryFormat(c *gin.Context, current slides.Format) (slides.Format, bool) {
	raw := c.Query("format")
	if raw == "" {
		return current, true
	}
	format, err := slides.ParseFormat(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return "", false
	}
	return format, true
}

func slideResponse(view studio.View, subject string) models.SlidesResponse {
	resp := models.SlidesResponse{
		Format: view.Sequence.Format,
		Index:  view.Index,
		Slides: make([]models.Slide, len(view.Sequence.Slides)),
	}
	for i, def := range view.Sequence.Slides {
		in := def.Render.Inputs
		photos := make([]models.SlidePhoto, len(in.Photos))
		for j, p := range in.Photos {
			photos[j] = models.SlidePhoto{URL: p.URL, Label: p.Label}
		}
		resp.Slides[i] = models.Slide{
			Index:          i,
			Name:           def.Name,
			SourceCategory: def.SourceCategory,
			Template:       def.Render.Template,
			Variant:        in.Variant,
			Photos:         photos,
			Placeholder:    in.Placeholder || in.Variant == slides.VariantPlaceholder,
			FileName:       export.FileName(subject, view.Sequence.Format, i),
		}
	}
	return resp
}

func (ws *WebServer) handleGetSlides(c *gin.Context) {
	s, ok := ws.session(c)
	if !ok {
		return
	}
	format, ok := queryFormat(c, s.studio.Format())
	if !ok {
		return
	}

	view := s.studio.Snapshot()
	if format != view.Sequence.Format {
		view = s.studio.SetFormat(format)
	}
	c.JSON(http.StatusOK, slideResponse(view, util.Slug(s.listing.Title)))
}

func (ws *WebServer) handleSelectSlide(c *gin.Context) {
	var req models.SelectSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	s, ok := ws.session(c)
	if !ok {
		return
	}

	var view studio.View
	switch {
	case req.Index != nil:
		view = s.studio.Select(*req.Index)
	case req.Step == "next":
		view = s.studio.Next()
	case req.Step == "prev":
		view = s.studio.Prev()
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: `either index or step ("next", "prev") is required`})
		return
	}
	c.JSON(http.StatusOK, slideResponse(view, util.Slug(s.listing.Title)))
}

// exportRequest builds the export of the studio's sequence for format. Other
// formats are built on the side so the preview keeps its position.
func (ws *WebServer) exportRequest(c *gin.Context, s *session, format slides.Format) (export.Request, bool) {
	seq := s.studio.Snapshot().Sequence
	if format != seq.Format {
		seq = s.subject.Build(s.catalog, format)
	}

	settings, err := ws.db.GetExportSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return export.Request{}, false
	}

	opts := raster.DefaultOptions()
	opts.Quality = settings.Quality
	opts.PixelDensity = settings.PixelDensity

	return export.Request{
		UserID:     s.listing.UserID,
		ListingID:  s.listing.ID,
		Title:      s.listing.Title,
		Sequence:   seq,
		Options:    opts,
		Photos:     s.catalog.URLs(),
		Property:   s.subject.Property,
		Management: s.subject.Management,
	}, true
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

func (ws *WebServer) handleExportSlide(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid slide index"})
		return
	}

	s, ok := ws.session(c)
	if !ok {
		return
	}
	format, ok := queryFormat(c, s.studio.Format())
	if !ok {
		return
	}
	req, ok := ws.exportRequest(c, s, format)
	if !ok {
		return
	}

	res, err := ws.exporter.ExportSingle(c.Request.Context(), req, index)
	switch {
	case errors.Is(err, export.ErrSlideOutOfRange):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, raster.ErrRenderTargetUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: fmt.Sprintf("Slide %d could not be exported: %v", index+1, err)})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Slide %d could not be exported: %v", index+1, err)})
		return
	}

	attachment(c, res.FileName)
	c.Data(http.StatusOK, "image/png", res.Bitmap)
}

func (ws *WebServer) handleExportAll(c *gin.Context) {
	s, ok := ws.session(c)
	if !ok {
		return
	}
	format, ok := queryFormat(c, s.studio.Format())
	if !ok {
		return
	}
	req, ok := ws.exportRequest(c, s, format)
	if !ok {
		return
	}

	archive, err := ws.exporter.ExportAll(c.Request.Context(), req)
	if err != nil {
		slog.Warn("export failed", "listing_id", req.ListingID, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Export failed: %v", err)})
		return
	}

	if failed := archive.Failed(); len(failed) > 0 {
		numbers := make([]string, len(failed))
		for i, f := range failed {
			numbers[i] = strconv.Itoa(f.Index + 1)
		}
		c.Header(models.HeaderFailedSlides, strings.Join(numbers, ","))
	}
	attachment(c, archive.Name)
	c.Data(http.StatusOK, "application/zip", archive.Data)
}
