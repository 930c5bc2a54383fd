package snapshot

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/signer"
	"github.com/fi-collar/pet-tracker/internal/tracker"
)

func testView() tracker.PetView {
	return tracker.PetView{
		ID:      "p1",
		Profile: pet.Profile{Name: "Milo"},
		Device:  &pet.DeviceState{BatteryPercent: 64},
		Location: &pet.Location{
			Latitude:  30.1,
			Longitude: -97.2,
			Start:     time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
			PlaceName: "Home",
		},
	}
}

func TestLocationEvent_Unsigned(t *testing.T) {
	b := NewBuilder("pet-tracker", nil)
	b.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	event, err := b.LocationEvent(testView())
	if err != nil {
		t.Fatalf("LocationEvent returned error: %v", err)
	}
	if event.Type != TypeLocation || event.Subject != "p1" || event.Source != "pet-tracker" || event.ID == "" {
		t.Fatalf("unexpected header %+v", event.CloudEventHeader)
	}
	if event.Producer != "" || event.Extras["signature"] != nil {
		t.Fatalf("unsigned event carries signature fields")
	}

	var payload Location
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Location.PlaceName != "Home" || payload.BatteryPercent == nil || *payload.BatteryPercent != 64 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestLocationEvent_Signed(t *testing.T) {
	s, err := signer.New("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	if err != nil {
		t.Fatal(err)
	}
	event, err := NewBuilder("pet-tracker", s).LocationEvent(testView())
	if err != nil {
		t.Fatalf("LocationEvent returned error: %v", err)
	}
	sig, ok := event.Extras["signature"].(string)
	if !ok {
		t.Fatalf("missing signature")
	}
	addr, err := signer.Recover(event.Data, sig)
	if err != nil {
		t.Fatal(err)
	}
	if addr != event.Producer || addr != s.Address() {
		t.Fatalf("signature recovered %s, producer %s", addr, event.Producer)
	}
}

func TestLocationEvent_NoLocation(t *testing.T) {
	view := testView()
	view.Location = nil
	if _, err := NewBuilder("pet-tracker", nil).LocationEvent(view); !errors.Is(err, pet.ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
}
