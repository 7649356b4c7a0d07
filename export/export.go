// Package export drives the rasterizer across a slide sequence and packages
// the resulting bitmaps as single files or one archive
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aouyang1/vitrine/raster"
	"github.com/aouyang1/vitrine/render"
	"github.com/aouyang1/vitrine/slides"
	"github.com/aouyang1/vitrine/util"
)

var (
	ErrSlideOutOfRange = errors.New("slide index out of range")
	ErrNothingExported = errors.New("no slide could be exported")
)

// Request is one export of a built sequence. Subject defaults to the slug of
// Title.
type Request struct {
	UserID    string
	ListingID string
	Title     string
	Subject   string
	Sequence  slides.Sequence
	Options   raster.Options

	// Photos are the input photo urls, in catalog order.
	Photos []string
	// Exactly one of Property or Management describes the subject.
	Property   *slides.PropertyData
	Management *slides.ManagementData
}

func (r Request) subject() string {
	if r.Subject != "" {
		return r.Subject
	}
	return util.Slug(r.Title)
}

func (r Request) options() raster.Options {
	if r.Options == (raster.Options{}) {
		return raster.DefaultOptions()
	}
	return r.Options
}

// Result is the outcome of one slide. Bitmap is set only when Err is nil.
type Result struct {
	Index    int
	FileName string
	Bitmap   []byte
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Archive struct {
	Name string
	Data []byte
	// Results holds every slide in sequence order, failures included.
	Results []Result
}

func (a *Archive) Succeeded() []Result {
	var out []Result
	for _, r := range a.Results {
		if r.OK() {
			out = append(out, r)
		}
	}
	return out
}

func (a *Archive) Failed() []Result {
	var out []Result
	for _, r := range a.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Job is what the bridge receives after a full export.
type Job struct {
	Request Request
	Images  []Result
}

// Bridge persists a finished export. Its errors never reach the caller of
// ExportAll.
type Bridge interface {
	Persist(ctx context.Context, job Job) error
}

type Exporter struct {
	adapter    render.Adapter
	rasterizer raster.Rasterizer
	bridge     Bridge

	wg sync.WaitGroup
}

// NewExporter builds an exporter, bridge may be nil.
func NewExporter(adapter render.Adapter, rasterizer raster.Rasterizer, bridge Bridge) *Exporter {
	return &Exporter{
		adapter:    adapter,
		rasterizer: rasterizer,
		bridge:     bridge,
	}
}

func FileName(subject string, format slides.Format, index int) string {
	return fmt.Sprintf("%s-%s-%d.png", subject, format, index+1)
}

func ArchiveName(subject string, format slides.Format) string {
	return fmt.Sprintf("%s-%s-completo.zip", subject, format)
}

func (e *Exporter) slide(ctx context.Context, req Request, index int) Result {
	res := Result{
		Index:    index,
		FileName: FileName(req.subject(), req.Sequence.Format, index),
	}

	surface, err := e.adapter.Render(req.Sequence.Slides[index].Render)
	if err != nil {
		res.Err = fmt.Errorf("failed to render slide %d: %w", index+1, err)
		return res
	}

	bitmap, err := e.rasterizer.Rasterize(ctx, surface, req.options())
	if err != nil {
		res.Err = fmt.Errorf("failed to rasterize slide %d: %w", index+1, err)
		return res
	}
	res.Bitmap = bitmap
	return res
}

// ExportSingle rasterizes one slide. Any failure is returned to the caller
// and nothing is handed to the bridge.
func (e *Exporter) ExportSingle(ctx context.Context, req Request, index int) (Result, error) {
	if index < 0 || index >= req.Sequence.Len() {
		return Result{Index: index}, fmt.Errorf("%w: %d of %d", ErrSlideOutOfRange, index, req.Sequence.Len())
	}

	res := e.slide(ctx, req, index)
	if res.Err != nil {
		return res, res.Err
	}
	slog.Info("exported slide", "file", res.FileName, "bytes", len(res.Bitmap))
	return res, nil
}

// ExportAll rasterizes every slide in order and zips the ones that
// succeeded. Failed slides are left out without renumbering the rest. When
// at least one slide made it, the bitmaps are handed to the bridge in the
// background. Once started it runs to completion, cancelling ctx does not cut
// the sequence short.
func (e *Exporter) ExportAll(ctx context.Context, req Request) (*Archive, error) {
	ctx = context.WithoutCancel(ctx)
	subject := req.subject()
	archive := &Archive{
		Name:    ArchiveName(subject, req.Sequence.Format),
		Results: make([]Result, 0, req.Sequence.Len()),
	}

	for i := range req.Sequence.Slides {
		res := e.slide(ctx, req, i)
		if res.Err != nil {
			slog.Warn("skipping slide in archive", "file", res.FileName, "error", res.Err)
		}
		archive.Results = append(archive.Results, res)
	}

	images := archive.Succeeded()
	if len(images) == 0 {
		return archive, ErrNothingExported
	}

	data, err := writeArchive(images)
	if err != nil {
		return archive, err
	}
	archive.Data = data
	slog.Info("exported archive",
		"file", archive.Name,
		"slides", len(images),
		"failed", len(archive.Results)-len(images),
	)

	e.handOff(ctx, req, images)
	return archive, nil
}

// handOff expects a ctx already detached from the request.
func (e *Exporter) handOff(ctx context.Context, req Request, images []Result) {
	if e.bridge == nil {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("bridge panicked", "listing_id", req.ListingID, "panic", r)
			}
		}()

		if err := e.bridge.Persist(ctx, Job{Request: req, Images: images}); err != nil {
			slog.Warn("failed to persist export", "listing_id", req.ListingID, "error", err)
		}
	}()
}

// Wait blocks until background bridge work has finished.
func (e *Exporter) Wait() {
	e.wg.Wait()
}

func writeArchive(images []Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Now()
	for _, img := range images {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     img.FileName,
			Method:   zip.Store,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", img.FileName, err)
		}
		if _, err := w.Write(img.Bitmap); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", img.FileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}
