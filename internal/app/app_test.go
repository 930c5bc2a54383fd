package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/snapshot"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/fxamacker/cbor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type fakeTracker struct {
	views map[string]tracker.PetView
	err   error
	code  string
	power *bool
}

func (f *fakeTracker) Views() []tracker.PetView {
	views := make([]tracker.PetView, 0, len(f.views))
	for _, v := range f.views {
		views = append(views, v)
	}
	return views
}

func (f *fakeTracker) View(petID string) (tracker.PetView, error) {
	v, ok := f.views[petID]
	if !ok {
		return tracker.PetView{}, fmt.Errorf("%w: %s", tracker.ErrPetNotFound, petID)
	}
	return v, nil
}

func (f *fakeTracker) Refresh(_ context.Context, petID string) (tracker.PetView, error) {
	v, err := f.View(petID)
	if err != nil {
		return v, err
	}
	return v, f.err
}

func (f *fakeTracker) SetLedColor(_ context.Context, petID, colorCode string) (tracker.PetView, error) {
	f.code = colorCode
	v, err := f.View(petID)
	if err != nil {
		return v, err
	}
	return v, f.err
}

func (f *fakeTracker) SetLedPower(_ context.Context, petID string, enabled bool) (tracker.PetView, error) {
	f.power = &enabled
	v, err := f.View(petID)
	if err != nil {
		return v, err
	}
	return v, f.err
}

func newTestApp(f *fakeTracker) *fiber.App {
	logger := zerolog.Nop()
	ctrl := NewController(&logger, f, snapshot.NewBuilder("pet-tracker", nil))
	return CreateWebServer(&logger, ctrl)
}

func testTracker() *fakeTracker {
	return &fakeTracker{views: map[string]tracker.PetView{
		"p1": {
			ID:       "p1",
			Profile:  pet.Profile{Name: "Milo"},
			Location: &pet.Location{Latitude: 1, Longitude: 2},
			Stats:    &pet.Stats{Daily: pet.PeriodStats{Steps: 10}},
		},
		"p2": {ID: "p2", Profile: pet.Profile{Name: "Luna"}},
	}}
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		err    error
		want   int
	}{
		{"health", http.MethodGet, "/", "", nil, http.StatusOK},
		{"list", http.MethodGet, "/pets", "", nil, http.StatusOK},
		{"get", http.MethodGet, "/pets/p1", "", nil, http.StatusOK},
		{"unknown pet", http.MethodGet, "/pets/nope", "", nil, http.StatusNotFound},
		{"location", http.MethodGet, "/pets/p1/location", "", nil, http.StatusOK},
		{"no location yet", http.MethodGet, "/pets/p2/location", "", nil, http.StatusNotFound},
		{"stats", http.MethodGet, "/pets/p1/stats", "", nil, http.StatusOK},
		{"no stats yet", http.MethodGet, "/pets/p2/stats", "", nil, http.StatusNotFound},
		{"refresh", http.MethodPost, "/pets/p1/refresh", "", nil, http.StatusOK},
		{"refresh upstream down", http.MethodPost, "/pets/p1/refresh", "", fmt.Errorf("dial: refused"), http.StatusBadGateway},
		{"refresh auth", http.MethodPost, "/pets/p1/refresh", "", pet.ErrUnauthorized, http.StatusBadGateway},
		{"color", http.MethodPut, "/pets/p1/led/color", `{"colorCode":"3"}`, nil, http.StatusOK},
		{"color invalid", http.MethodPut, "/pets/p1/led/color", `{"colorCode":"blue"}`, fmt.Errorf("%w: not an integer", pet.ErrInvalidInput), http.StatusBadRequest},
		{"power", http.MethodPut, "/pets/p1/led/power", `{"enabled":false}`, nil, http.StatusOK},
		{"power missing flag", http.MethodPut, "/pets/p1/led/power", `{}`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testTracker()
			f.err = tt.err
			resp := do(t, newTestApp(f), tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.StatusCode, body)
			}
		})
	}
}

func TestErrorBody(t *testing.T) {
	resp := do(t, newTestApp(testTracker()), http.MethodGet, "/pets/nope", "")
	got := decode[codeResp](t, resp)
	if got.Code != http.StatusNotFound || got.Message != "Pet not found" {
		t.Fatalf("unexpected error body %+v", got)
	}
}

func TestSetLedPower_PassesFlag(t *testing.T) {
	f := testTracker()
	resp := do(t, newTestApp(f), http.MethodPut, "/pets/p1/led/power", `{"enabled":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if f.power == nil || !*f.power {
		t.Fatalf("expected enabled=true to reach the tracker")
	}
}

func TestGetLocation_ReturnsEvent(t *testing.T) {
	resp := do(t, newTestApp(testTracker()), http.MethodGet, "/pets/p1/location", "")
	got := decode[map[string]any](t, resp)
	if got["type"] != snapshot.TypeLocation || got["subject"] != "p1" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestGetPet_CBOR(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pets/p1", nil)
	req.Header.Set("Accept", mimeCBOR)
	resp, err := newTestApp(testTracker()).Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if ct := resp.Header.Get("Content-Type"); ct != mimeCBOR {
		t.Fatalf("expected CBOR content type, got %s", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var view tracker.PetView
	if err := cbor.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode CBOR: %v", err)
	}
	if view.ID != "p1" || view.Profile.Name != "Milo" {
		t.Fatalf("unexpected view %+v", view)
	}
}
