package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aouyang1/vitrine/render"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type ChromeConfig struct {
	// ControlURL connects to an already running browser when set.
	ControlURL string
	// Bin is the browser binary, empty lets the launcher find or fetch one.
	Bin string
	// Timeout bounds one capture, from page creation to screenshot. Zero
	// leaves captures unbounded.
	Timeout time.Duration
	// Settle is how long the page must stay unchanged before capture.
	Settle time.Duration
}

func (c ChromeConfig) settle() time.Duration {
	if c.Settle <= 0 {
		return 300 * time.Millisecond
	}
	return c.Settle
}

// Chrome rasterizes surfaces in a headless browser. Captures run one at a
// time on a fresh page each.
type Chrome struct {
	cfg ChromeConfig

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewChrome(cfg ChromeConfig) *Chrome {
	return &Chrome{cfg: cfg}
}

// Start connects to the configured browser or launches a headless one.
func (c *Chrome) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

func (c *Chrome) startLocked() error {
	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return nil
		}
		slog.Warn("stale browser connection, reconnecting")
		_ = c.browser.Close()
		c.browser = nil
	}

	controlURL := c.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if c.cfg.Bin != "" {
			l = l.Bin(c.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("failed to launch browser: %w", err)
		}
		c.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	c.browser = browser
	slog.Info("browser connected", "control_url", controlURL)
	return nil
}

// Close shuts the browser down, a launched process is killed.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher = nil
	}
	return err
}

func (c *Chrome) Rasterize(ctx context.Context, surface *render.Surface, opts Options) ([]byte, error) {
	if !Attached(surface) {
		return nil, ErrRenderTargetUnavailable
	}
	opts = opts.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.startLocked(); err != nil {
		return nil, err
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open page: %v", ErrRenderTargetUnavailable, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Debug("failed to close capture page", "error", err)
		}
	}()
	page = page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             surface.Width,
		Height:            surface.Height,
		DeviceScaleFactor: opts.PixelDensity,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("failed to set device metrics: %w", err)
	}

	if err := page.SetDocumentContent(surface.HTML); err != nil {
		return nil, fmt.Errorf("%w: failed to mount surface: %v", ErrRenderTargetUnavailable, err)
	}

	// the capture must wait for paint, including remote photos
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for surface load: %w", err)
	}
	if err := page.WaitStable(c.cfg.settle()); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed waiting for surface paint: %w", err)
	}

	req := &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      0,
			Y:      0,
			Width:  float64(surface.Width),
			Height: float64(surface.Height),
			Scale:  1,
		},
		FromSurface: true,
	}
	if opts.Format == FormatJPEG {
		quality := int(math.Round(opts.Quality * 100))
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = &quality
	}

	bitmap, err := page.Screenshot(false, req)
	if err != nil {
		return nil, fmt.Errorf("failed to capture surface: %w", err)
	}
	return bitmap, nil
}
