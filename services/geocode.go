package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Location is a geocoded destination.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// Geocoder resolves a free-text address to coordinates. Implementations may
// fail; callers are expected to degrade to PlaceholderLocation.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

// PlaceholderLocation is the degraded stand-in used when geocoding fails:
// zero coordinates, the raw destination string as the address.
func PlaceholderLocation(destination string) *Location {
	return &Location{Lat: 0, Lng: 0, FormattedAddress: destination}
}

// ─── Nominatim ────────────────────────────────────────────────────────────────

// NominatimGeocoder geocodes via the OpenStreetMap Nominatim API.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimGeocoder builds a geocoder against the public Nominatim
// endpoint (override with NOMINATIM_URL for a self-hosted instance).
func NewNominatimGeocoder() *NominatimGeocoder {
	baseURL := os.Getenv("NOMINATIM_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &NominatimGeocoder{
		baseURL: baseURL,
		// Nominatim's usage policy requires an identifying User-Agent
		userAgent: "greentrip/1.0 (sustainable travel planner)",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to its first Nominatim match.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error (%d): %s", resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return &Location{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: results[0].DisplayName,
	}, nil
}
