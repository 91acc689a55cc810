package inspector

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"
)

type vec struct{ X, Z float64 }

type sample struct {
	Name     string  `inspect:"label"`
	Heading  float64 `inspect:"angle"`
	Speed    float64 `inspect:"label,fmt:%.1f"`
	Focusing bool
	Hidden   int `inspect:"skip"`
	Target   *vec
	Nested   vec
	private  int
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		fmt    string
	}{
		{"", WidgetAuto, ""},
		{"label", WidgetLabel, ""},
		{"label,fmt:%.1fs", WidgetLabel, "%.1fs"},
		{"angle", WidgetAngle, ""},
		{"skip", WidgetSkip, ""},
		{"unknown", WidgetAuto, ""},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget || opts["fmt"] != tt.fmt {
			t.Errorf("ParseTag(%q) = %v, %v", tt.tag, w, opts)
		}
	}
}

func TestExtractFieldsSkipsHiddenAndPrivate(t *testing.T) {
	fields := ExtractFields(&sample{})
	names := make(map[string]bool)
	for _, f := range fields {
		names[f.Name] = true
	}
	if names["Hidden"] || names["private"] {
		t.Errorf("skipped fields extracted: %v", names)
	}
	if len(fields) != 6 {
		t.Errorf("extracted %d fields, want 6", len(fields))
	}
	if ExtractFields((*sample)(nil)) != nil || ExtractFields(3) != nil {
		t.Error("non-struct input should yield no fields")
	}
}

func TestInspectorLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ins := NewInspector(logger, 10)

	if !ins.Due(20) || ins.Due(21) {
		t.Error("Due does not follow the interval")
	}

	s := sample{Name: "h1", Heading: math.Pi / 2, Speed: 0.123, Focusing: true, Nested: vec{1, 2}}
	ins.Log(20, "hunter", Named{Name: "agent", Component: s})

	var rec struct {
		Tick  int `json:"tick"`
		Agent struct {
			Name     string          `json:"name"`
			Heading  string          `json:"heading"`
			Speed    string          `json:"speed"`
			Focusing bool            `json:"focusing"`
			Target   string          `json:"target"`
			Nested   json.RawMessage `json:"nested"`
		} `json:"agent"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), err)
	}
	if rec.Tick != 20 || rec.Agent.Name != "h1" || rec.Agent.Heading != "90.0deg" || rec.Agent.Speed != "0.1" {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.Agent.Focusing || rec.Agent.Target != "none" || len(rec.Agent.Nested) == 0 {
		t.Errorf("unexpected record %+v", rec)
	}

	var disabled *Inspector
	if disabled.Due(0) {
		t.Error("nil inspector should never be due")
	}
	disabled.Log(0, "ignored")
}
