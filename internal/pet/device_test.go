package pet

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDeviceApplyDetails(t *testing.T) {
	d := newDevice("dev-1", func() time.Time { return fixedNow })
	if err := d.ApplyDetails(json.RawMessage(deviceJSON)); err != nil {
		t.Fatalf("ApplyDetails returned error: %v", err)
	}

	s := d.State()
	if s.ID != "dev-1" || s.ModuleID != "mod-1" || s.BuildID != "4.2.1" {
		t.Fatalf("unexpected identity fields %#v", s)
	}
	if s.BatteryPercent != 87 || s.IsCharging || s.Mode != "NORMAL" || !s.LedEnabled {
		t.Fatalf("unexpected status fields %#v", s)
	}
	if s.LedOffAt != nil {
		t.Fatalf("expected nil ledOffAt, got %v", s.LedOffAt)
	}
	if s.LedColor != (LedColor{Name: "BLUE", HexCode: "#0000FF", Code: 3}) {
		t.Fatalf("unexpected led color %#v", s.LedColor)
	}
	if len(s.AvailableLedColors) != 2 || s.AvailableLedColors[1].Name != "GREEN" {
		t.Fatalf("unexpected available colors %#v", s.AvailableLedColors)
	}
	if s.ConnectionState != "ConnectedToBase" || s.ConnectionDate == nil ||
		!s.ConnectionDate.Equal(time.Date(2023, 5, 1, 11, 59, 0, 0, time.UTC)) {
		t.Fatalf("unexpected connection %s %v", s.ConnectionState, s.ConnectionDate)
	}
	if !s.LastUpdated.Equal(fixedNow) {
		t.Fatalf("expected lastUpdated %v, got %v", fixedNow, s.LastUpdated)
	}
}

func TestDeviceApplyDetails_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"null", `null`},
		{"missing module", strings.Replace(deviceJSON, `"moduleId": "mod-1",`, "", 1)},
		{"empty module", strings.Replace(deviceJSON, `"moduleId": "mod-1"`, `"moduleId": ""`, 1)},
		{"missing battery", strings.Replace(deviceJSON, `"batteryPercent": 87, `, "", 1)},
		{"bad battery", strings.Replace(deviceJSON, `"batteryPercent": 87`, `"batteryPercent": "full"`, 1)},
		{"missing mode", strings.Replace(deviceJSON, `"mode": "NORMAL", `, "", 1)},
		{"bad next update", strings.Replace(deviceJSON, `"2023-05-01T12:05:00Z"`, `"soon"`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDevice("dev-1", func() time.Time { return fixedNow })
			if err := d.ApplyDetails(json.RawMessage(deviceJSON)); err != nil {
				t.Fatal(err)
			}
			before := d.State()

			err := d.ApplyDetails(json.RawMessage(tt.doc))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
			if after := d.State(); after.BatteryPercent != before.BatteryPercent || after.ModuleID != before.ModuleID {
				t.Fatalf("state changed after rejected apply")
			}
		})
	}
}

func TestDeviceStateIsACopy(t *testing.T) {
	d := newDevice("dev-1", time.Now)
	if err := d.ApplyDetails(json.RawMessage(deviceJSON)); err != nil {
		t.Fatal(err)
	}
	s := d.State()
	s.AvailableLedColors[0].Name = "MUTATED"
	if d.State().AvailableLedColors[0].Name != "BLUE" {
		t.Fatalf("State exposed internal slice")
	}
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-05-01T12:00:00Z", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2023-05-01T12:00:00.123456", time.Date(2023, 5, 1, 12, 0, 0, 123456000, time.UTC)},
		{"2023-05-01 14:00:00+02:00", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"2023-05-01", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseISOTime(tt.in)
		if err != nil {
			t.Fatalf("parseISOTime(%q) returned error: %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("parseISOTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseISOTime("05/01/2023"); err == nil {
		t.Fatalf("expected error for non ISO timestamp")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrNoDevice, KindInvalidInput},
		{missingMember("x"), KindMalformedPayload},
		{errors.Join(errors.New("status=403"), ErrUnauthorized), KindAuth},
		{errors.New("dial tcp: refused"), KindNetwork},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{`7`, 7, false},
		{`"12"`, 12, false},
		{`3.9`, 3, false},
		{`"3.9"`, 0, true},
		{`true`, 0, true},
		{`1e30`, 0, true},
		{`-1e30`, 0, true},
		{`"99999999999999999999"`, 0, true},
	}
	for _, tt := range tests {
		var n flexInt
		err := json.Unmarshal([]byte(tt.in), &n)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: unexpected error state %v", tt.in, err)
		}
		if !tt.wantErr && int(n) != tt.want {
			t.Fatalf("%s: got %d want %d", tt.in, n, tt.want)
		}
	}
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`2.5`, 2.5, false},
		{`"90000.25"`, 90000.25, false},
		{`"NaN"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`"1e400"`, 0, true},
		{`"heavy"`, 0, true},
	}
	for _, tt := range tests {
		var n flexFloat
		err := json.Unmarshal([]byte(tt.in), &n)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: unexpected error state %v", tt.in, err)
		}
		if !tt.wantErr && float64(n) != tt.want {
			t.Fatalf("%s: got %v want %v", tt.in, n, tt.want)
		}
	}
}
