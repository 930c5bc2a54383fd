package pet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// nullableString records whether a member was present at all. A JSON null reads as "".
type nullableString struct {
	value   string
	present bool
}

// UnmarshalJSON unmarshals a nullableString.
func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.present = true
	if string(data) == "null" {
		n.value = ""
		return nil
	}
	return json.Unmarshal(data, &n.value)
}

// flexInt accepts a JSON number or a numeric string. Fractional numbers are truncated.
type flexInt int

// UnmarshalJSON unmarshals a flexInt.
func (n *flexInt) UnmarshalJSON(data []byte) error {
	s, quoted, err := numericText(data)
	if err != nil {
		return err
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = flexInt(v)
		return nil
	}
	if quoted {
		return fmt.Errorf("%q is not an integer", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%s is not an integer", s)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("%s is out of range", s)
	}
	*n = flexInt(int(f))
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

// UnmarshalJSON unmarshals a flexFloat.
func (n *flexFloat) UnmarshalJSON(data []byte) error {
	s, _, err := numericText(data)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%q is not a finite number", s)
	}
	*n = flexFloat(f)
	return nil
}

func numericText(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", true, err
		}
		return strings.TrimSpace(s), true, nil
	}
	if len(data) == 0 || data[0] == 't' || data[0] == 'f' || data[0] == '{' || data[0] == '[' {
		return "", false, fmt.Errorf("%s is not a number", string(data))
	}
	return string(data), false, nil
}

type detailsPayload struct {
	Name          nullableString  `json:"name"`
	HomeCityState nullableString  `json:"homeCityState"`
	YearOfBirth   *flexInt        `json:"yearOfBirth"`
	MonthOfBirth  *flexInt        `json:"monthOfBirth"`
	DayOfBirth    *flexInt        `json:"dayOfBirth"`
	Gender        nullableString  `json:"gender"`
	Weight        *flexFloat      `json:"weight"`
	Breed         *breedPayload   `json:"breed"`
	Photos        json.RawMessage `json:"photos"`
	Device        json.RawMessage `json:"device"`
}

type breedPayload struct {
	Name nullableString `json:"name"`
}

// photoLink resolves first.image.fullSize. Any other shape counts as no photo.
func photoLink(photos json.RawMessage) (string, bool) {
	res := gjson.GetBytes(photos, "first.image.fullSize")
	if res.Type != gjson.String {
		return "", false
	}
	return res.String(), true
}

func (d *detailsPayload) validate() error {
	switch {
	case !d.Name.present:
		return missingMember("name")
	case !d.HomeCityState.present:
		return missingMember("homeCityState")
	case d.YearOfBirth == nil:
		return missingMember("yearOfBirth")
	case d.MonthOfBirth == nil:
		return missingMember("monthOfBirth")
	case d.DayOfBirth == nil:
		return missingMember("dayOfBirth")
	case !d.Gender.present:
		return missingMember("gender")
	case d.Weight == nil:
		return missingMember("weight")
	case d.Breed == nil || !d.Breed.Name.present:
		return missingMember("breed.name")
	case isAbsent(d.Device):
		return missingMember("device")
	}
	return nil
}

type locationPayload struct {
	Typename  string           `json:"__typename"`
	Start     *string          `json:"start"`
	Position  *positionPayload `json:"position"`
	Positions []struct {
		Position *positionPayload `json:"position"`
	} `json:"positions"`
	Place *placePayload `json:"place"`
}

type positionPayload struct {
	Latitude  *flexFloat `json:"latitude"`
	Longitude *flexFloat `json:"longitude"`
}

type placePayload struct {
	Name    nullableString `json:"name"`
	Address nullableString `json:"address"`
}

const ongoingWalk = "OngoingWalk"

// location validates the payload and converts it into a Location. Walks report a trail of
// positions and no place; the latest position is used.
func (l *locationPayload) location() (Location, error) {
	var loc Location
	position := l.Position
	if l.Typename == ongoingWalk && len(l.Positions) > 0 {
		position = l.Positions[len(l.Positions)-1].Position
	} else {
		if l.Place == nil {
			return loc, missingMember("place")
		}
		if !l.Place.Name.present {
			return loc, missingMember("place.name")
		}
		if !l.Place.Address.present {
			return loc, missingMember("place.address")
		}
		loc.PlaceName = l.Place.Name.value
		loc.PlaceAddress = l.Place.Address.value
	}
	switch {
	case position == nil:
		return loc, missingMember("position")
	case position.Longitude == nil:
		return loc, missingMember("position.longitude")
	case position.Latitude == nil:
		return loc, missingMember("position.latitude")
	case l.Start == nil:
		return loc, missingMember("start")
	}
	start, err := parseISOTime(*l.Start)
	if err != nil {
		return loc, fmt.Errorf("%w: start: %w", ErrMalformedPayload, err)
	}
	loc.Longitude = float64(*position.Longitude)
	loc.Latitude = float64(*position.Latitude)
	loc.Start = start
	return loc, nil
}

type periodPayload struct {
	StepGoal      *flexInt   `json:"stepGoal"`
	TotalSteps    *flexInt   `json:"totalSteps"`
	TotalDistance *flexFloat `json:"totalDistance"`
}

func decodePeriod(name string, raw json.RawMessage) (PeriodStats, error) {
	if isAbsent(raw) {
		return PeriodStats{}, missingMember(name)
	}
	var p periodPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return PeriodStats{}, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, name, err)
	}
	switch {
	case p.StepGoal == nil:
		return PeriodStats{}, missingMember(name + ".stepGoal")
	case p.TotalSteps == nil:
		return PeriodStats{}, missingMember(name + ".totalSteps")
	case p.TotalDistance == nil:
		return PeriodStats{}, missingMember(name + ".totalDistance")
	}
	return PeriodStats{
		Goal:     int(*p.StepGoal),
		Steps:    int(*p.TotalSteps),
		Distance: float64(*p.TotalDistance),
	}, nil
}

type statsDocument struct {
	Daily   json.RawMessage `json:"dailyStat"`
	Weekly  json.RawMessage `json:"weeklyStat"`
	Monthly json.RawMessage `json:"monthlyStat"`
}

// isoLayouts are tried in order; naive timestamps are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// member returns the raw value stored under key in a JSON object document.
func member(doc json.RawMessage, key string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	raw, ok := obj[key]
	if !ok || isAbsent(raw) {
		return nil, missingMember(key)
	}
	return raw, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func missingMember(name string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedPayload, name)
}
