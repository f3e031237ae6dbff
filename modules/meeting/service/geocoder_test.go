package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGeocoder(baseURL string) *KakaoGeocoder {
	return &KakaoGeocoder{
		client:  &http.Client{Timeout: time.Second},
		baseURL: baseURL,
		apiKey:  "test-key",
	}
}

func TestGeocodeParsesFirstMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "1 River Road" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents":[{"x":"127.0276","y":"37.4979"},{"x":"0","y":"0"}]}`))
	}))
	defer srv.Close()

	coords, err := newTestGeocoder(srv.URL).Geocode(context.Background(), "1 River Road")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if coords == nil {
		t.Fatalf("expected a match")
	}
	if coords.Latitude != 37.4979 || coords.Longitude != 127.0276 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
}

func TestGeocodeNoMatchReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents":[]}`))
	}))
	defer srv.Close()

	coords, err := newTestGeocoder(srv.URL).Geocode(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if coords != nil {
		t.Fatalf("no documents should mean no match, got %+v", coords)
	}
}

func TestGeocodeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestGeocoder(srv.URL).Geocode(context.Background(), "1 River Road"); err == nil {
		t.Fatalf("non-200 response must surface an error")
	}
}

func TestGeocodeBadCoordinatePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents":[{"x":"not-a-number","y":"37.0"}]}`))
	}))
	defer srv.Close()

	if _, err := newTestGeocoder(srv.URL).Geocode(context.Background(), "1 River Road"); err == nil {
		t.Fatalf("malformed coordinates must surface an error")
	}
}
