// Package client consumes the Ecoleta REST API. It holds the typed HTTP
// client plus the two client-side flows: registering a collection point
// (Draft) and browsing points filtered by item (Browser).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// Item is a collectable waste category.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Point is a collection point as returned by the API.
type Point struct {
	ID        int64   `json:"id"`
	Image     string  `json:"image"`
	ImageURL  string  `json:"image_url"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	WhatsApp  string  `json:"whatsapp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	UF        string  `json:"uf"`
}

// PointDetail is a point plus the titles of the items it accepts.
type PointDetail struct {
	Point Point `json:"point"`
	Items []struct {
		Title string `json:"title"`
	} `json:"items"`
}

// ItemTitles flattens Items.
func (d *PointDetail) ItemTitles() []string {
	titles := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		titles = append(titles, it.Title)
	}
	return titles
}

// NewPoint is the payload of a point registration.
type NewPoint struct {
	Name      string
	Email     string
	WhatsApp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
	ItemIDs   []int64
	ImageName string
	Image     io.Reader
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("api: HTTP %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// API is a client for the Ecoleta REST API.
type API struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *API) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := a.do(ctx, http.MethodGet, "/items", nil, "", &items); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// ListPoints returns the points in city/uf accepting at least one of itemIDs.
// Empty arguments are not sent.
func (a *API) ListPoints(ctx context.Context, city, uf string, itemIDs []int64) ([]Point, error) {
	q := url.Values{}
	if city != "" {
		q.Set("city", city)
	}
	if uf != "" {
		q.Set("uf", uf)
	}
	if len(itemIDs) > 0 {
		q.Set("items", joinIDs(itemIDs))
	}
	path := "/points"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var points []Point
	if err := a.do(ctx, http.MethodGet, path, nil, "", &points); err != nil {
		return nil, fmt.Errorf("listing points: %w", err)
	}
	return points, nil
}

func (a *API) GetPoint(ctx context.Context, id int64) (*PointDetail, error) {
	var detail PointDetail
	if err := a.do(ctx, http.MethodGet, "/points/"+strconv.FormatInt(id, 10), nil, "", &detail); err != nil {
		return nil, fmt.Errorf("getting point %d: %w", id, err)
	}
	return &detail, nil
}

// CreatePoint registers a point with a multipart upload.
func (a *API) CreatePoint(ctx context.Context, p NewPoint) (*Point, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := [][2]string{
		{"name", p.Name},
		{"email", p.Email},
		{"whatsapp", p.WhatsApp},
		{"latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64)},
		{"city", p.City},
		{"uf", p.UF},
		{"items", joinIDs(p.ItemIDs)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", f[0], err)
		}
	}
	if p.Image != nil {
		part, err := mw.CreateFormFile("image", p.ImageName)
		if err != nil {
			return nil, fmt.Errorf("creating image part: %w", err)
		}
		if _, err := io.Copy(part, p.Image); err != nil {
			return nil, fmt.Errorf("copying image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	var created Point
	if err := a.do(ctx, http.MethodPost, "/points", &body, mw.FormDataContentType(), &created); err != nil {
		return nil, fmt.Errorf("creating point: %w", err)
	}
	return &created, nil
}

func (a *API) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message string              `json:"message"`
		Errors  []domain.FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Message = payload.Message
	apiErr.Fields = payload.Errors
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
