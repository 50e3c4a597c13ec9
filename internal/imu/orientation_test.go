package imu

import (
	"errors"
	"testing"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

func ptr(s string) *string { return &s }

func TestParseOrientation_Nil(t *testing.T) {
	o, err := ParseOrientation(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if o.String() != "xyz" {
		t.Errorf("Expected identity orientation, got %q", o.String())
	}

	v := telemetry.Vector3{1, 2, 3}
	if got := o.Apply(v); got != v {
		t.Errorf("Identity changed vector: %v -> %v", v, got)
	}
}

func TestParseOrientation_Validation(t *testing.T) {
	// Every 3 letter string over the alphabet below; valid iff it is a
	// case-insensitive permutation of xyz.
	alphabet := "xyzXYZaw1"

	for _, a := range alphabet {
		for _, b := range alphabet {
			for _, c := range alphabet {
				spec := string([]rune{a, b, c})
				_, err := ParseOrientation(&spec)

				if want := isSignedPermutation(spec); want != (err == nil) {
					t.Errorf("ParseOrientation(%q): expected valid=%v, got err=%v", spec, want, err)
				}
				if err != nil {
					var invalid *InvalidOrientationError
					if !errors.As(err, &invalid) {
						t.Errorf("ParseOrientation(%q): expected InvalidOrientationError, got %T", spec, err)
					} else if invalid.Spec != spec {
						t.Errorf("ParseOrientation(%q): error carries %q", spec, invalid.Spec)
					}
				}
			}
		}
	}
}

func isSignedPermutation(s string) bool {
	if len(s) != 3 {
		return false
	}
	seen := map[byte]bool{}
	for i := 0; i < 3; i++ {
		c := lower(s[i])
		if c != 'x' && c != 'y' && c != 'z' {
			return false
		}
		seen[c] = true
	}
	return len(seen) == 3
}

func TestParseOrientation_Length(t *testing.T) {
	testCases := []struct {
		name string
		spec string
	}{
		{"empty", ""},
		{"too short", "xy"},
		{"too long", "xyzx"},
		{"multibyte", "xyé"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var invalid *InvalidOrientationError
			if _, err := ParseOrientation(&tc.spec); !errors.As(err, &invalid) {
				t.Errorf("Expected InvalidOrientationError, got %v", err)
			}
		})
	}
}

func TestParseOrientation_Axes(t *testing.T) {
	o, err := ParseOrientation(ptr("zXy"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := [3]AxisMap{
		{Target: 1, Sign: -1}, // x is read at position 1, uppercase
		{Target: 2, Sign: 1},  // y at position 2
		{Target: 0, Sign: 1},  // z at position 0
	}
	if o.Axes() != expected {
		t.Errorf("Expected axes %v, got %v", expected, o.Axes())
	}

	got := o.Apply(telemetry.Vector3{1, 2, 3})
	want := telemetry.Vector3{3, -1, 2}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseOrientation_SignConvention(t *testing.T) {
	lowerO, err := ParseOrientation(ptr("xyz"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	upperO, err := ParseOrientation(ptr("Xyz"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	v := telemetry.Vector3{1.5, -2, 4}
	a, b := lowerO.Apply(v), upperO.Apply(v)

	if b[0] != -a[0] {
		t.Errorf("Expected first axis negated: %v vs %v", a, b)
	}
	if b[1] != a[1] || b[2] != a[2] {
		t.Errorf("Expected remaining axes unchanged: %v vs %v", a, b)
	}
}

func TestOrientation_ApplyToNil(t *testing.T) {
	if Identity.ApplyTo(nil) != nil {
		t.Error("Expected nil reading to stay nil")
	}
}
