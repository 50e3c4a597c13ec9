package telemetry

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	GroupDefault GroupID = iota
	GroupGyroscope
	GroupAccelerometer
	GroupMagnetometer
	GroupLens
	GroupExposure
)

const (
	TagMetadata TagID = iota
	TagData
	TagUnit
	TagScale
	TagOrientation
	TagName
)

var groupNames = map[GroupID]string{
	GroupDefault:       "default",
	GroupGyroscope:     "gyroscope",
	GroupAccelerometer: "accelerometer",
	GroupMagnetometer:  "magnetometer",
	GroupLens:          "lens",
	GroupExposure:      "exposure",
}

var tagNames = map[TagID]string{
	TagMetadata:    "metadata",
	TagData:        "data",
	TagUnit:        "unit",
	TagScale:       "scale",
	TagOrientation: "orientation",
	TagName:        "name",
}

// GroupID identifies a group of related tags within a sample.
type GroupID int

func (g GroupID) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("group(%d)", int(g))
}

// ParseGroupID returns the group with the given name, case-insensitively.
func ParseGroupID(name string) (GroupID, error) {
	for id, n := range groupNames {
		if strings.EqualFold(n, name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown tag group '%s'", name)
}

// TagID identifies a tag within a group.
type TagID int

func (t TagID) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// ParseTagID returns the tag with the given name, case-insensitively.
func ParseTagID(name string) (TagID, error) {
	for id, n := range tagNames {
		if strings.EqualFold(n, name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown tag '%s'", name)
}

// TagKey addresses a single tag in a TagMap.
type TagKey struct {
	Group GroupID
	Tag   TagID
}

// TagMap holds the metadata tags attached to a sample.
type TagMap map[TagKey]TagValue

// Get returns the value stored under group and tag. It is safe to call on a
// nil map.
func (m TagMap) Get(group GroupID, tag TagID) (TagValue, bool) {
	v, ok := m[TagKey{Group: group, Tag: tag}]
	return v, ok
}

// Set stores value under group and tag.
func (m TagMap) Set(group GroupID, tag TagID, value TagValue) {
	m[TagKey{Group: group, Tag: tag}] = value
}

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindJSON
)

var kindNames = map[ValueKind]string{
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindJSON:   "json",
}

// ValueKind discriminates the variants of TagValue.
type ValueKind int

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseValueKind returns the kind with the given name.
func ParseValueKind(name string) (ValueKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown value kind '%s'", name)
}

// TagValue is a tagged union over the value types a decoder may attach to a
// sample. Only the field matching Kind is meaningful.
type TagValue struct {
	kind    ValueKind
	str     string
	num     int64
	flt     float64
	boolean bool
	raw     json.RawMessage
}

func StringValue(s string) TagValue { return TagValue{kind: KindString, str: s} }

func IntValue(i int64) TagValue { return TagValue{kind: KindInt, num: i} }

func FloatValue(f float64) TagValue { return TagValue{kind: KindFloat, flt: f} }

func BoolValue(b bool) TagValue { return TagValue{kind: KindBool, boolean: b} }

// JSONValue wraps an already encoded JSON document. The document is compacted
// and validated.
func JSONValue(raw []byte) (TagValue, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return TagValue{}, fmt.Errorf("invalid json tag value: %w", err)
	}
	return TagValue{kind: KindJSON, raw: buf.Bytes()}, nil
}

// ParseTagValue decodes the textual form produced by String for the given kind.
func ParseTagValue(kind ValueKind, s string) (TagValue, error) {
	switch kind {
	case KindString:
		return StringValue(s), nil

	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return TagValue{}, fmt.Errorf("parsing int tag value: %w", err)
		}
		return IntValue(i), nil

	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return TagValue{}, fmt.Errorf("parsing float tag value: %w", err)
		}
		return FloatValue(f), nil

	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return TagValue{}, fmt.Errorf("parsing bool tag value: %w", err)
		}
		return BoolValue(b), nil

	case KindJSON:
		return JSONValue([]byte(s))
	}
	return TagValue{}, fmt.Errorf("unsupported value kind %s", kind)
}

func (v TagValue) Kind() ValueKind {
	return v.kind
}

// String returns the serialized form of the value. JSON values are returned
// as compact JSON text.
func (v TagValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindJSON:
		return string(v.raw)
	}
	return ""
}
