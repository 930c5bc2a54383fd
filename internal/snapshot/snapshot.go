// Package snapshot wraps pet state into CloudEvents.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DIMO-Network/cloudevent"
	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/fi-collar/pet-tracker/internal/signer"
	"github.com/fi-collar/pet-tracker/internal/tracker"
	"github.com/segmentio/ksuid"
)

const (
	// TypeLocation is the event type of a pet location snapshot.
	TypeLocation    = "tryfi.pet.location"
	locationVersion = "pet-location/v1.0.0"
)

// Location is the signed payload of a location event.
type Location struct {
	PetID          string       `json:"petId"`
	Name           string       `json:"name"`
	Location       pet.Location `json:"location"`
	BatteryPercent *int         `json:"batteryPercent,omitempty"`
	Time           time.Time    `json:"time"`
}

// Builder builds snapshot events. The signer is optional.
type Builder struct {
	source string
	signer *signer.Signer
	now    func() time.Time
}

// NewBuilder creates a builder that stamps events with source.
func NewBuilder(source string, s *signer.Signer) *Builder {
	return &Builder{
		source: source,
		signer: s,
		now:    time.Now,
	}
}

// LocationEvent builds the location event of a pet. It returns pet.ErrNoLocation when the view has
// no location yet.
func (b *Builder) LocationEvent(view tracker.PetView) (*cloudevent.CloudEvent[json.RawMessage], error) {
	if view.Location == nil {
		return nil, pet.ErrNoLocation
	}
	now := b.now().UTC()
	payload := Location{
		PetID:    view.ID,
		Name:     view.Profile.Name,
		Location: *view.Location,
		Time:     now,
	}
	if view.Device != nil {
		battery := view.Device.BatteryPercent
		payload.BatteryPercent = &battery
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location snapshot: %w", err)
	}

	event := cloudevent.CloudEvent[json.RawMessage]{
		CloudEventHeader: cloudevent.CloudEventHeader{
			SpecVersion:     "1.0",
			Time:            now,
			ID:              ksuid.New().String(),
			Type:            TypeLocation,
			Source:          b.source,
			Subject:         view.ID,
			DataContentType: "application/json",
			DataVersion:     locationVersion,
		},
		Data: json.RawMessage(data),
	}
	if b.signer != nil {
		signature, err := b.signer.Sign(data)
		if err != nil {
			return nil, fmt.Errorf("failed to sign message: %w", err)
		}
		event.Producer = b.signer.Address()
		event.Extras = map[string]any{
			"signature": signature,
		}
	}
	return &event, nil
}
