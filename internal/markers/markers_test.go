package markers

import (
	"strings"
	"testing"
)

func TestLetter(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"flow_meter", "F"},
		{"Flow Meter", "F"},
		{"pressure-sensor", "P"},
		{"LEVEL_SENSOR", "L"},
		{"valve", "V"},
		{"pump_station", "U"},
		{"chlorinator", FallbackLetter},
		{"", FallbackLetter},
	}
	for _, tc := range cases {
		if got := Letter(tc.in); got != tc.want {
			t.Errorf("Letter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColor(t *testing.T) {
	if Color("Online") != ColorOnline {
		t.Fatal("Online must map to the online color")
	}
	if Color(" online ") != ColorOnline {
		t.Fatal("status comparison must tolerate case and spacing")
	}
	for _, status := range []string{"Offline", "unknown", ""} {
		if Color(status) != ColorOffline {
			t.Fatalf("status %q must map to the offline color", status)
		}
	}
}

func TestRender_isPureAndEmbedsLetterAndColor(t *testing.T) {
	a := Render("Online", "flow_meter")
	b := Render("Online", "flow_meter")
	if a != b {
		t.Fatal("Render must be deterministic for identical inputs")
	}
	if a.Letter != "F" || a.Color != ColorOnline {
		t.Fatalf("unexpected glyph %+v", a)
	}
	if !strings.Contains(a.SVG, ColorOnline) || !strings.Contains(a.SVG, ">F<") {
		t.Fatalf("svg missing color or letter: %s", a.SVG)
	}

	off := Render("Offline", "mystery")
	if off.Letter != FallbackLetter || off.Color != ColorOffline {
		t.Fatalf("unexpected fallback glyph %+v", off)
	}
}
