// Package pet models a tracked pet and its collar, and keeps both in sync with the
// pet-tracking service through a QueryService.
package pet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ledModeNormal is the operation mode sent with LED power changes.
const ledModeNormal = "NORMAL"

// QueryService fetches and mutates pet and collar state on the remote service.
// Every call returns the JSON document produced by the service.
type QueryService interface {
	FetchCurrentStats(ctx context.Context, session, petID string) (json.RawMessage, error)
	FetchCurrentLocation(ctx context.Context, session, petID string) (json.RawMessage, error)
	FetchDeviceDetails(ctx context.Context, session, petID string) (json.RawMessage, error)
	SetLedColor(ctx context.Context, session, moduleID string, colorCode int) (json.RawMessage, error)
	SetLedPower(ctx context.Context, session, moduleID, mode string, enabled bool) (json.RawMessage, error)
}

// Profile holds the biographical details of a pet.
type Profile struct {
	Name          string  `json:"name"`
	HomeCityState string  `json:"homeCityState"`
	YearOfBirth   int     `json:"yearOfBirth"`
	MonthOfBirth  int     `json:"monthOfBirth"`
	DayOfBirth    int     `json:"dayOfBirth"`
	Gender        string  `json:"gender"`
	WeightKg      float64 `json:"weightKg"`
	Breed         string  `json:"breed"`
	PhotoLink     string  `json:"photoLink"`
}

// Location is the pet's current location snapshot.
type Location struct {
	Longitude    float64   `json:"longitude"`
	Latitude     float64   `json:"latitude"`
	Start        time.Time `json:"start"`
	PlaceName    string    `json:"placeName"`
	PlaceAddress string    `json:"placeAddress"`
}

// PeriodStats is the activity of one period. Distance is in metres.
type PeriodStats struct {
	Goal     int     `json:"goal"`
	Steps    int     `json:"steps"`
	Distance float64 `json:"distance"`
}

// Stats is the activity snapshot for the current day, week and month.
type Stats struct {
	Daily   PeriodStats `json:"daily"`
	Weekly  PeriodStats `json:"weekly"`
	Monthly PeriodStats `json:"monthly"`
}

// Pet is a tracked pet. A Pet is not safe for concurrent use.
type Pet struct {
	id     string
	query  QueryService
	logger *zerolog.Logger
	now    func() time.Time

	profile     Profile
	device      *Device
	location    *Location
	stats       *Stats
	lastUpdated time.Time
}

// New returns an empty pet. ApplyDetails must succeed before the pet is used.
func New(petID string, query QueryService, logger zerolog.Logger) (*Pet, error) {
	if strings.TrimSpace(petID) == "" {
		return nil, fmt.Errorf("%w: pet id is empty", ErrInvalidInput)
	}
	if query == nil {
		return nil, fmt.Errorf("%w: query service is nil", ErrInvalidInput)
	}
	l := logger.With().Str("petId", petID).Logger()
	return &Pet{
		id:     petID,
		query:  query,
		logger: &l,
		now:    time.Now,
	}, nil
}

// ID returns the pet id.
func (p *Pet) ID() string { return p.id }

// Profile returns the biographical details.
func (p *Pet) Profile() Profile { return p.profile }

func (p *Pet) Name() string          { return p.profile.Name }
func (p *Pet) HomeCityState() string { return p.profile.HomeCityState }
func (p *Pet) Gender() string        { return p.profile.Gender }
func (p *Pet) Breed() string         { return p.profile.Breed }
func (p *Pet) PhotoLink() string     { return p.profile.PhotoLink }

// Weight returns the weight in kilograms.
func (p *Pet) Weight() float64 { return p.profile.WeightKg }

// BirthDate returns the date of birth at midnight UTC.
func (p *Pet) BirthDate() time.Time {
	return time.Date(p.profile.YearOfBirth, time.Month(p.profile.MonthOfBirth), p.profile.DayOfBirth, 0, 0, 0, 0, time.UTC)
}

// Device returns the collar, or nil before details were applied.
func (p *Pet) Device() *Device { return p.device }

// LastUpdated returns the time of the last successful details, location or stats update.
func (p *Pet) LastUpdated() time.Time { return p.lastUpdated }

// CurrentLocation returns the location snapshot or ErrNoLocation.
func (p *Pet) CurrentLocation() (Location, error) {
	if p.location == nil {
		return Location{}, ErrNoLocation
	}
	return *p.location, nil
}

// Stats returns the activity snapshot or ErrNoStats.
func (p *Pet) Stats() (Stats, error) {
	if p.stats == nil {
		return Stats{}, ErrNoStats
	}
	return *p.stats, nil
}

func (p *Pet) String() string {
	loc := "unknown"
	if p.location != nil {
		loc = fmt.Sprintf("%f,%f Since: %s", p.location.Latitude, p.location.Longitude, p.location.Start.Format(time.RFC3339))
	}
	return fmt.Sprintf("Last Updated - %s - Pet ID: %s Name: %s From: %s Located: %s using Device/Collar: %v",
		p.lastUpdated.Format(time.RFC3339), p.id, p.profile.Name, p.profile.HomeCityState, loc, p.device)
}

// ApplyDetails replaces the biographical details and rebuilds the collar from the nested
// device document. On error the pet is unchanged.
func (p *Pet) ApplyDetails(doc json.RawMessage) error {
	var d detailsPayload
	if err := json.Unmarshal(doc, &d); err != nil {
		return fmt.Errorf("%w: pet details: %w", ErrMalformedPayload, err)
	}
	if err := d.validate(); err != nil {
		return err
	}

	var deviceID struct {
		ID nullableString `json:"id"`
	}
	if err := json.Unmarshal(d.Device, &deviceID); err != nil {
		return fmt.Errorf("%w: device: %w", ErrMalformedPayload, err)
	}
	if !deviceID.ID.present {
		return missingMember("device.id")
	}
	device := newDevice(deviceID.ID.value, p.now)
	if err := device.ApplyDetails(d.Device); err != nil {
		return err
	}

	photo, ok := photoLink(d.Photos)
	if !ok {
		p.logger.Warn().Msg("Cannot find photo of your pet. Defaulting to empty string.")
	}

	p.profile = Profile{
		Name:          d.Name.value,
		HomeCityState: d.HomeCityState.value,
		YearOfBirth:   int(*d.YearOfBirth),
		MonthOfBirth:  int(*d.MonthOfBirth),
		DayOfBirth:    int(*d.DayOfBirth),
		Gender:        d.Gender.value,
		WeightKg:      float64(*d.Weight),
		Breed:         d.Breed.Name.value,
		PhotoLink:     photo,
	}
	p.device = device
	p.lastUpdated = p.now()
	return nil
}

// ApplyCurrentLocation replaces the location snapshot. On error the previous snapshot is kept.
func (p *Pet) ApplyCurrentLocation(doc json.RawMessage) error {
	if isAbsent(doc) {
		return missingMember("location")
	}
	var l locationPayload
	if err := json.Unmarshal(doc, &l); err != nil {
		return fmt.Errorf("%w: location: %w", ErrMalformedPayload, err)
	}
	loc, err := l.location()
	if err != nil {
		return err
	}
	p.location = &loc
	p.lastUpdated = p.now()
	return nil
}

// ApplyStats replaces all three activity periods. On error the previous snapshot is kept.
func (p *Pet) ApplyStats(daily, weekly, monthly json.RawMessage) error {
	var (
		s   Stats
		err error
	)
	if s.Daily, err = decodePeriod("dailyStat", daily); err != nil {
		return err
	}
	if s.Weekly, err = decodePeriod("weeklyStat", weekly); err != nil {
		return err
	}
	if s.Monthly, err = decodePeriod("monthlyStat", monthly); err != nil {
		return err
	}
	p.stats = &s
	p.lastUpdated = p.now()
	return nil
}

// RefreshStats fetches and applies the current activity stats.
func (p *Pet) RefreshStats(ctx context.Context, session string) Result {
	doc, err := p.query.FetchCurrentStats(ctx, session, p.id)
	if err == nil {
		var s statsDocument
		if err = json.Unmarshal(doc, &s); err != nil {
			err = fmt.Errorf("%w: stats: %w", ErrMalformedPayload, err)
		} else {
			err = p.ApplyStats(s.Daily, s.Weekly, s.Monthly)
		}
	}
	if err != nil {
		return p.fail(err, fmt.Sprintf("Could not update stats for Pet %s.", p.profile.Name))
	}
	return Result{}
}

// RefreshLocation fetches and applies the current location.
func (p *Pet) RefreshLocation(ctx context.Context, session string) Result {
	doc, err := p.query.FetchCurrentLocation(ctx, session, p.id)
	if err == nil {
		err = p.ApplyCurrentLocation(doc)
	}
	if err != nil {
		return p.fail(err, fmt.Sprintf("Could not update Pet: %s's location.", p.profile.Name))
	}
	return Result{}
}

// RefreshDeviceDetails fetches the collar details and applies them to the Device.
func (p *Pet) RefreshDeviceDetails(ctx context.Context, session string) Result {
	msg := fmt.Sprintf("Could not update Device/Collar information for Pet: %s", p.profile.Name)
	if p.device == nil {
		return p.fail(ErrNoDevice, msg)
	}
	doc, err := p.query.FetchDeviceDetails(ctx, session, p.id)
	if err == nil {
		var raw json.RawMessage
		if raw, err = member(doc, "device"); err == nil {
			err = p.device.ApplyDetails(raw)
		}
	}
	if err != nil {
		return p.fail(err, msg)
	}
	return Result{}
}

// RefreshAll refreshes the collar, the location and the stats, in that order.
// Callers that need the outcome of each part call the three refreshes in the same order.
// Individual failures are logged by each refresh and otherwise ignored.
func (p *Pet) RefreshAll(ctx context.Context, session string) {
	p.RefreshDeviceDetails(ctx, session)
	p.RefreshLocation(ctx, session)
	p.RefreshStats(ctx, session)
}

// SetLedColor changes the collar LED color. colorCode must be an integer.
func (p *Pet) SetLedColor(ctx context.Context, session, colorCode string) Result {
	code, err := strconv.Atoi(strings.TrimSpace(colorCode))
	if err != nil {
		return p.fail(fmt.Errorf("%w: led color code %q is not an integer", ErrInvalidInput, colorCode), "Could not complete request.")
	}
	if p.device == nil {
		return p.fail(ErrNoDevice, "Could not complete request.")
	}
	doc, err := p.query.SetLedColor(ctx, session, p.device.ModuleID(), code)
	if err != nil {
		return p.fail(err, "Could not complete request.")
	}
	if err := p.applyDeviceFragment(doc, "setDeviceLed"); err != nil {
		p.logger.Warn().Err(err).Msgf("Updated LED Color but could not get current status for Pet: %s", p.profile.Name)
	}
	return Result{}
}

// SetLedOnOff turns the collar LED on or off.
func (p *Pet) SetLedOnOff(ctx context.Context, session string, enabled bool) Result {
	if p.device == nil {
		return p.fail(ErrNoDevice, "Could not complete request.")
	}
	doc, err := p.query.SetLedPower(ctx, session, p.device.ModuleID(), ledModeNormal, enabled)
	if err != nil {
		return p.fail(err, "Could not complete request.")
	}
	if err := p.applyDeviceFragment(doc, "updateDeviceOperationParams"); err != nil {
		p.logger.Warn().Err(err).Msgf("Action: %t was successful however unable to get current status for Pet: %s", enabled, p.profile.Name)
	}
	return Result{}
}

func (p *Pet) applyDeviceFragment(doc json.RawMessage, key string) error {
	raw, err := member(doc, key)
	if err != nil {
		return err
	}
	return p.device.ApplyDetails(raw)
}

func (p *Pet) fail(err error, msg string) Result {
	res := resultOf(err)
	p.logger.Error().Err(err).Stringer("kind", res.Kind).Msg(msg)
	return res
}
