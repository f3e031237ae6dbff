package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/moimo-team/moaclass-back/core/config"
	"github.com/moimo-team/moaclass-back/core/logger"
)

// Coordinates is a resolved point for a street address.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// KakaoGeocoder resolves addresses through the Kakao local search API.
type KakaoGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewKakaoGeocoder() *KakaoGeocoder {
	cfg := config.Get()
	return &KakaoGeocoder{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.Geocoder.BaseURL,
		apiKey:  cfg.Geocoder.APIKey,
	}
}

type kakaoAddressResponse struct {
	Documents []struct {
		X string `json:"x"`
		Y string `json:"y"`
	} `json:"documents"`
}

// Geocode returns the first match for the address, or nil when the
// provider knows no such place.
func (g *KakaoGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	reqURL := fmt.Sprintf("%s?query=%s", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error("KakaoGeocoder:Geocode:Error", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("KakaoGeocoder:Geocode:APIError", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}

	var parsed kakaoAddressResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Documents) == 0 {
		logger.Warn("KakaoGeocoder:Geocode:NoMatch", "address", address)
		return nil, nil
	}

	doc := parsed.Documents[0]
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude from geocoder: %w", err)
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude from geocoder: %w", err)
	}

	return &Coordinates{Latitude: lat, Longitude: lng}, nil
}
