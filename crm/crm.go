// Package crm persists finished exports: it uploads the bitmaps, records the
// creative and opens a property stub in the crm from the cover image
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aouyang1/vitrine/export"
	"github.com/aouyang1/vitrine/store"
	"github.com/aouyang1/vitrine/util"
	"github.com/google/uuid"
)

const (
	TypeApartment  = "apartment"
	TypeHouse      = "house"
	TypeLand       = "land"
	TypeCommercial = "commercial"
	TypeRural      = "rural"
	TypeOther      = "other"
)

// checked in order, the first match wins
var typeKeywords = []struct {
	kind     string
	keywords []string
}{
	{TypeRural, []string{"fazenda", "sitio", "chacara", "rural", "haras"}},
	{TypeLand, []string{"terreno", "lote", "gleba"}},
	{TypeCommercial, []string{"comercial", "sala", "loja", "galpao", "escritorio", "predio", "ponto"}},
	{TypeApartment, []string{"apartamento", "apto", "cobertura", "flat", "studio", "kitnet", "loft", "duplex"}},
	{TypeHouse, []string{"casa", "sobrado", "residencia", "condominio", "bangalo"}},
}

// PropertyType maps a free text property type onto the crm's closed set of
// types, ignoring case and accents.
func PropertyType(text string) string {
	folded := util.Fold(text)
	for _, t := range typeKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(folded, kw) {
				return t.kind
			}
		}
	}
	return TypeOther
}

// ParsePrice keeps only the digits of a price text and reads them as cents.
// Text without digits parses to zero.
func ParsePrice(text string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		slog.Warn("price out of range", "price", text, "error", err)
		return 0
	}
	return float64(cents) / 100
}

// NewCode returns a short property code such as REV-1A2B3C4D.
func NewCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "REV-" + strings.ToUpper(id[:8])
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Copy(ctx context.Context, srcKey, dstKey string) (string, error)
}

type Records interface {
	CreateCreative(ctx context.Context, c *store.Creative) error
	CreateCRMProperty(ctx context.Context, p *store.CRMProperty) error
}

// Bridge implements export.Bridge.
type Bridge struct {
	objects ObjectStore
	records Records

	now     func() time.Time
	newCode func() string
}

func NewBridge(objects ObjectStore, records Records) *Bridge {
	return &Bridge{
		objects: objects,
		records: records,
		now:     time.Now,
		newCode: NewCode,
	}
}

func ImageKey(userID string, ts time.Time, n int) string {
	return fmt.Sprintf("creatives/%s/%d-%d.png", keySegment(userID), ts.UnixMilli(), n)
}

func CoverKey(userID, code string) string {
	return fmt.Sprintf("crm/%s/%s/cover.png", keySegment(userID), code)
}

func keySegment(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "anonymous"
	}
	return s
}

type upload struct {
	key string
	url string
}

func (b *Bridge) Persist(ctx context.Context, job export.Job) error {
	req := job.Request
	if len(job.Images) == 0 {
		return nil
	}

	ts := b.now()
	var uploads []upload
	for i, img := range job.Images {
		key := ImageKey(req.UserID, ts, i+1)
		u, err := b.objects.Upload(ctx, key, img.Bitmap, "image/png")
		if err != nil {
			slog.Warn("failed to upload exported slide", "file", img.FileName, "key", key, "error", err)
			continue
		}
		uploads = append(uploads, upload{key: key, url: u})
	}
	if len(uploads) == 0 {
		return errors.New("no exported slide could be uploaded")
	}

	urls := make([]string, len(uploads))
	for i, u := range uploads {
		urls[i] = u.url
	}

	creative, err := b.creative(req, urls)
	if err != nil {
		return err
	}
	if err := b.records.CreateCreative(ctx, creative); err != nil {
		return fmt.Errorf("failed to create creative: %w", err)
	}
	slog.Info("creative persisted", "creative_id", creative.ID, "images", len(urls))

	if req.Property == nil {
		return nil
	}
	return b.property(ctx, req, creative, uploads[0])
}

func (b *Bridge) creative(req export.Request, urls []string) (*store.Creative, error) {
	kind := store.KindProperty
	var subject any = req.Property
	if req.Property == nil {
		kind = store.KindManagement
		subject = req.Management
	}
	data, err := json.Marshal(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal creative data: %w", err)
	}

	return &store.Creative{
		UserID:         req.UserID,
		ListingID:      req.ListingID,
		Title:          req.Title,
		Kind:           kind,
		Format:         string(req.Sequence.Format),
		Data:           data,
		Photos:         req.Photos,
		ThumbnailURL:   urls[0],
		ExportedImages: urls,
		CreatedAt:      b.now().UTC(),
	}, nil
}

func (b *Bridge) property(ctx context.Context, req export.Request, creative *store.Creative, cover upload) error {
	data := req.Property
	code := b.newCode()

	coverURL, err := b.objects.Copy(ctx, cover.key, CoverKey(req.UserID, code))
	if err != nil {
		slog.Warn("failed to copy cover for crm, using creative image", "code", code, "error", err)
		coverURL = cover.url
	}

	prop := &store.CRMProperty{
		Code:             code,
		PropertyType:     PropertyType(data.PropertyType),
		City:             data.Address.City,
		State:            data.Address.State,
		Neighborhood:     data.Address.Neighborhood,
		SaleValue:        ParsePrice(data.Price),
		CoverImageURL:    coverURL,
		SourceCreativeID: creative.ID,
		CreatedByUserID:  req.UserID,
	}
	if err := b.records.CreateCRMProperty(ctx, prop); err != nil {
		return fmt.Errorf("failed to create crm property %s: %w", code, err)
	}
	slog.Info("crm property created", "code", code, "creative_id", creative.ID, "sale_value", prop.SaleValue)
	return nil
}
