package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aouyang1/vitrine/api/models"
	"github.com/aouyang1/vitrine/slides"
	"github.com/aouyang1/vitrine/store"
)

type VitrineClient struct {
	baseURL string
	client  *http.Client
}

func NewVitrineClient(baseURL string) *VitrineClient {
	return &VitrineClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Download is a file returned by an export endpoint.
type Download struct {
	Name string
	Data []byte
	// Failed holds the 1-based numbers of slides left out of an archive.
	Failed []int
}

func (vc *VitrineClient) do(method, path string, reqBody any) (*http.Response, []byte, error) {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, vc.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := vc.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return resp, nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return resp, nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return resp, respBody, nil
}

func (vc *VitrineClient) doJSON(method, path string, reqBody, out any) error {
	_, body, err := vc.do(method, path, reqBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func listingPath(id string, parts ...string) string {
	return "/listings/" + url.PathEscape(id) + strings.Join(parts, "")
}

func (vc *VitrineClient) CreateListing(req models.CreateListingRequest) (*models.ListingResponse, error) {
	var resp models.ListingResponse
	if err := vc.doJSON(http.MethodPost, "/listings", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (vc *VitrineClient) GetListing(id string) (*models.ListingResponse, error) {
	var resp models.ListingResponse
	if err := vc.doJSON(http.MethodGet, listingPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterPhoto adds a photo url to a listing. Registering a url twice is not
// an error, the response order is then -1.
func (vc *VitrineClient) RegisterPhoto(listingID, photoURL, category string) (*models.RegisterPhotoResponse, error) {
	var resp models.RegisterPhotoResponse
	req := models.RegisterPhotoRequest{URL: photoURL, Category: category}
	if err := vc.doJSON(http.MethodPost, listingPath(listingID, "/photos"), req, &resp); err != nil {
		return nil, err
	}

	slog.Info("photo registered", "listing_id", listingID, "url", photoURL, "category", category, "order", resp.Order)
	return &resp, nil
}

func (vc *VitrineClient) GetPhotos(listingID string) ([]store.Photo, error) {
	var resp models.PhotoListResponse
	if err := vc.doJSON(http.MethodGet, listingPath(listingID, "/photos"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Photos, nil
}

func (vc *VitrineClient) DeletePhoto(listingID, photoURL string) error {
	path := listingPath(listingID, "/photos?url=", url.QueryEscape(photoURL))
	return vc.doJSON(http.MethodDelete, path, nil, nil)
}

func (vc *VitrineClient) ReorderPhoto(listingID, photoURL string, newOrder int) (*store.Photo, error) {
	var resp store.Photo
	req := models.ReorderRequest{URL: photoURL, NewOrder: newOrder}
	if err := vc.doJSON(http.MethodPut, listingPath(listingID, "/photos/reorder"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func formatQuery(format slides.Format) string {
	if format == "" {
		return ""
	}
	return "?format=" + url.QueryEscape(string(format))
}

// GetSlides returns the listing's preview, switching it to format when set.
func (vc *VitrineClient) GetSlides(listingID string, format slides.Format) (*models.SlidesResponse, error) {
	var resp models.SlidesResponse
	if err := vc.doJSON(http.MethodGet, listingPath(listingID, "/slides", formatQuery(format)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (vc *VitrineClient) SelectSlide(listingID string, req models.SelectSlideRequest) (*models.SlidesResponse, error) {
	var resp models.SlidesResponse
	if err := vc.doJSON(http.MethodPut, listingPath(listingID, "/slides/active"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (vc *VitrineClient) ExportSlide(listingID string, format slides.Format, index int) (*Download, error) {
	path := listingPath(listingID, "/slides/", strconv.Itoa(index), "/export", formatQuery(format))
	resp, body, err := vc.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return &Download{Name: fileName(resp), Data: body}, nil
}

func (vc *VitrineClient) ExportAll(listingID string, format slides.Format) (*Download, error) {
	resp, body, err := vc.do(http.MethodPost, listingPath(listingID, "/export", formatQuery(format)), nil)
	if err != nil {
		return nil, err
	}

	d := &Download{Name: fileName(resp), Data: body}
	if failed := resp.Header.Get(models.HeaderFailedSlides); failed != "" {
		for _, s := range strings.Split(failed, ",") {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid failed slide number %q: %w", s, err)
			}
			d.Failed = append(d.Failed, n)
		}
	}
	return d, nil
}

func fileName(resp *http.Response) string {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (vc *VitrineClient) GetSettings() (*store.ExportSettings, error) {
	var resp store.ExportSettings
	if err := vc.doJSON(http.MethodGet, "/settings", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (vc *VitrineClient) UpdateSettings(req models.UpdateSettingsRequest) (*store.ExportSettings, error) {
	var resp store.ExportSettings
	if err := vc.doJSON(http.MethodPut, "/settings", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (vc *VitrineClient) ListCreatives(userID string) ([]store.Creative, error) {
	var resp models.CreativeListResponse
	if err := vc.doJSON(http.MethodGet, "/creatives?user_id="+url.QueryEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Creatives, nil
}

func (vc *VitrineClient) ListCRMProperties(userID string) ([]store.CRMProperty, error) {
	var resp models.CRMPropertyListResponse
	if err := vc.doJSON(http.MethodGet, "/crm/properties?user_id="+url.QueryEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Properties, nil
}
