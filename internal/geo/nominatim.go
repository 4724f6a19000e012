package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Nominatim wraps the OpenStreetMap Nominatim search API.
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatim creates a client for the API at baseURL, normally
// https://nominatim.openstreetmap.org.
func NewNominatim(baseURL string) *Nominatim {
	return &Nominatim{baseURL: strings.TrimRight(baseURL, "/"), httpClient: newHTTPClient()}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best match for a free-form query such as "Recife, PE".
func (c *Nominatim) Geocode(ctx context.Context, query string) (*Coordinates, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)

	var results []nominatimResult
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/search?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("geocoding %q: %w", query, ErrNoResults)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}
	return &Coordinates{Lat: lat, Lng: lng}, nil
}
