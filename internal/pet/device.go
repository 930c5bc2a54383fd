package pet

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedColor is one of the colors the collar LED can show.
type LedColor struct {
	Name    string `json:"name"`
	HexCode string `json:"hexCode"`
	Code    int    `json:"code"`
}

// DeviceState is a copy of the collar's last applied details.
type DeviceState struct {
	ID                 string     `json:"id"`
	ModuleID           string     `json:"moduleId"`
	BuildID            string     `json:"buildId"`
	BatteryPercent     int        `json:"batteryPercent"`
	IsCharging         bool       `json:"isCharging"`
	Mode               string     `json:"mode"`
	LedEnabled         bool       `json:"ledEnabled"`
	LedOffAt           *time.Time `json:"ledOffAt,omitempty"`
	LedColor           LedColor   `json:"ledColor"`
	AvailableLedColors []LedColor `json:"availableLedColors"`
	ConnectionState    string     `json:"connectionState"`
	ConnectionDate     *time.Time `json:"connectionDate,omitempty"`
	NextLocationUpdate *time.Time `json:"nextLocationUpdate,omitempty"`
	LastUpdated        time.Time  `json:"lastUpdated"`
}

// Device is the collar owned by a Pet.
type Device struct {
	id    string
	state DeviceState
	now   func() time.Time
}

// newDevice returns a collar shell for the given device id.
func newDevice(id string, now func() time.Time) *Device {
	return &Device{
		id:    id,
		state: DeviceState{ID: id},
		now:   now,
	}
}

// ID returns the device id the collar was constructed with.
func (d *Device) ID() string {
	return d.id
}

// ModuleID returns the identifier used for hardware commands.
func (d *Device) ModuleID() string {
	return d.state.ModuleID
}

// State returns a copy of the collar details.
func (d *Device) State() DeviceState {
	s := d.state
	s.AvailableLedColors = append([]LedColor(nil), d.state.AvailableLedColors...)
	return s
}

func (d *Device) String() string {
	return fmt.Sprintf("Device ID: %s Module ID: %s Mode: %s Battery: %d%% LED: %s (enabled=%t) Connection: %s",
		d.id, d.state.ModuleID, d.state.Mode, d.state.BatteryPercent, d.state.LedColor.Name, d.state.LedEnabled, d.state.ConnectionState)
}

type devicePayload struct {
	ModuleID nullableString `json:"moduleId"`
	Info     *struct {
		BuildID        nullableString `json:"buildId"`
		BatteryPercent *flexInt       `json:"batteryPercent"`
		IsCharging     *bool          `json:"isCharging"`
	} `json:"info"`
	OperationParams *struct {
		Mode       nullableString `json:"mode"`
		LedEnabled *bool          `json:"ledEnabled"`
		LedOffAt   *string        `json:"ledOffAt"`
	} `json:"operationParams"`
	LedColor            *ledColorPayload  `json:"ledColor"`
	AvailableLedColors  []ledColorPayload `json:"availableLedColors"`
	LastConnectionState *struct {
		Typename string  `json:"__typename"`
		Date     *string `json:"date"`
	} `json:"lastConnectionState"`
	NextLocationUpdateExpectedBy *string `json:"nextLocationUpdateExpectedBy"`
}

type ledColorPayload struct {
	Name         string   `json:"name"`
	HexCode      string   `json:"hexCode"`
	LedColorCode *flexInt `json:"ledColorCode"`
}

func (l ledColorPayload) color() LedColor {
	c := LedColor{Name: l.Name, HexCode: l.HexCode}
	if l.LedColorCode != nil {
		c.Code = int(*l.LedColorCode)
	}
	return c
}

// ApplyDetails replaces the collar details with the given device document.
// The document is fully validated first; on error the collar is unchanged.
func (d *Device) ApplyDetails(doc json.RawMessage) error {
	if isAbsent(doc) {
		return missingMember("device")
	}
	var p devicePayload
	if err := json.Unmarshal(doc, &p); err != nil {
		return fmt.Errorf("%w: device: %w", ErrMalformedPayload, err)
	}
	switch {
	case !p.ModuleID.present || p.ModuleID.value == "":
		return missingMember("device.moduleId")
	case p.Info == nil:
		return missingMember("device.info")
	case p.Info.BatteryPercent == nil:
		return missingMember("device.info.batteryPercent")
	case p.OperationParams == nil:
		return missingMember("device.operationParams")
	case !p.OperationParams.Mode.present:
		return missingMember("device.operationParams.mode")
	}

	next := DeviceState{
		ID:             d.id,
		ModuleID:       p.ModuleID.value,
		BuildID:        p.Info.BuildID.value,
		BatteryPercent: int(*p.Info.BatteryPercent),
		IsCharging:     p.Info.IsCharging != nil && *p.Info.IsCharging,
		Mode:           p.OperationParams.Mode.value,
		LedEnabled:     p.OperationParams.LedEnabled != nil && *p.OperationParams.LedEnabled,
	}
	var err error
	if next.LedOffAt, err = optionalTime("device.operationParams.ledOffAt", p.OperationParams.LedOffAt); err != nil {
		return err
	}
	if next.NextLocationUpdate, err = optionalTime("device.nextLocationUpdateExpectedBy", p.NextLocationUpdateExpectedBy); err != nil {
		return err
	}
	if p.LedColor != nil {
		next.LedColor = p.LedColor.color()
	}
	next.AvailableLedColors = make([]LedColor, 0, len(p.AvailableLedColors))
	for _, c := range p.AvailableLedColors {
		next.AvailableLedColors = append(next.AvailableLedColors, c.color())
	}
	if p.LastConnectionState != nil {
		next.ConnectionState = p.LastConnectionState.Typename
		if next.ConnectionDate, err = optionalTime("device.lastConnectionState.date", p.LastConnectionState.Date); err != nil {
			return err
		}
	}
	next.LastUpdated = d.now()

	d.state = next
	return nil
}

func optionalTime(name string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseISOTime(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, name, err)
	}
	return &t, nil
}
