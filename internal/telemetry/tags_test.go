package telemetry

import (
	"testing"
)

func TestParseGroupID(t *testing.T) {
	for id, name := range groupNames {
		got, err := ParseGroupID(name)
		if err != nil {
			t.Errorf("ParseGroupID(%q): unexpected error: %v", name, err)
			continue
		}
		if got != id {
			t.Errorf("ParseGroupID(%q): expected %v, got %v", name, id, got)
		}
	}

	if got, err := ParseGroupID("GyroScope"); err != nil || got != GroupGyroscope {
		t.Errorf("Expected case-insensitive match, got %v (%v)", got, err)
	}
	if _, err := ParseGroupID("thermometer"); err == nil {
		t.Error("Expected error for unknown group")
	}
}

func TestParseTagID(t *testing.T) {
	for id, name := range tagNames {
		got, err := ParseTagID(name)
		if err != nil {
			t.Errorf("ParseTagID(%q): unexpected error: %v", name, err)
			continue
		}
		if got != id {
			t.Errorf("ParseTagID(%q): expected %v, got %v", name, id, got)
		}
	}

	if _, err := ParseTagID(""); err == nil {
		t.Error("Expected error for empty tag name")
	}
}

func TestTagMap_Get(t *testing.T) {
	var nilMap TagMap
	if _, ok := nilMap.Get(GroupDefault, TagMetadata); ok {
		t.Error("Expected lookup in nil map to miss")
	}

	m := TagMap{}
	m.Set(GroupLens, TagName, StringValue("wide"))

	v, ok := m.Get(GroupLens, TagName)
	if !ok {
		t.Fatal("Expected tag to be found")
	}
	if v.Kind() != KindString || v.String() != "wide" {
		t.Errorf("Unexpected value %s(%s)", v.Kind(), v)
	}
	if _, ok = m.Get(GroupDefault, TagName); ok {
		t.Error("Expected lookup with another group to miss")
	}
}

func TestTagValue_String(t *testing.T) {
	testCases := []struct {
		name     string
		value    TagValue
		kind     ValueKind
		expected string
	}{
		{"string", StringValue("HERO9 Black"), KindString, "HERO9 Black"},
		{"int", IntValue(-42), KindInt, "-42"},
		{"float", FloatValue(0.125), KindFloat, "0.125"},
		{"whole float", FloatValue(3), KindFloat, "3"},
		{"large float", FloatValue(1e21), KindFloat, "1000000000000000000000"},
		{"small float", FloatValue(1e-7), KindFloat, "0.0000001"},
		{"negative float", FloatValue(-2.5e-5), KindFloat, "-0.000025"},
		{"bool", BoolValue(true), KindBool, "true"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.value.Kind() != tc.kind {
				t.Errorf("Expected kind %s, got %s", tc.kind, tc.value.Kind())
			}
			if got := tc.value.String(); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}

			parsed, err := ParseTagValue(tc.kind, tc.value.String())
			if err != nil {
				t.Fatalf("ParseTagValue failed: %v", err)
			}
			if parsed.Kind() != tc.kind || parsed.String() != tc.expected {
				t.Errorf("Expected parsed value %s(%s), got %s(%s)", tc.kind, tc.expected, parsed.Kind(), parsed)
			}
		})
	}
}

func TestJSONValue(t *testing.T) {
	v, err := JSONValue([]byte("{ \"b\": 1,\n  \"a\": [true, null] }"))
	if err != nil {
		t.Fatalf("JSONValue failed: %v", err)
	}
	if v.Kind() != KindJSON {
		t.Errorf("Expected kind json, got %s", v.Kind())
	}

	// Key order is kept, whitespace is not.
	if expected := `{"b":1,"a":[true,null]}`; v.String() != expected {
		t.Errorf("Expected %s, got %s", expected, v.String())
	}

	if _, err = JSONValue([]byte(`{"a":`)); err == nil {
		t.Error("Expected error for malformed document")
	}
}

func TestParseTagValue_Errors(t *testing.T) {
	testCases := []struct {
		kind  ValueKind
		input string
	}{
		{KindInt, "1.5"},
		{KindFloat, "fast"},
		{KindBool, "maybe"},
		{KindJSON, "{"},
		{ValueKind(99), "x"},
	}

	for _, tc := range testCases {
		if _, err := ParseTagValue(tc.kind, tc.input); err == nil {
			t.Errorf("ParseTagValue(%s, %q): expected error", tc.kind, tc.input)
		}
	}
}

func TestParseValueKind(t *testing.T) {
	for kind, name := range kindNames {
		got, err := ParseValueKind(name)
		if err != nil || got != kind {
			t.Errorf("ParseValueKind(%q): expected %v, got %v (%v)", name, kind, got, err)
		}
	}
	if _, err := ParseValueKind("blob"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}
