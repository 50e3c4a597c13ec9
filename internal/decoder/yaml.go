package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

type yamlCamera struct {
	Type  string  `yaml:"type"`
	Model *string `yaml:"model"`
}

type yamlTag struct {
	Group string    `yaml:"group"`
	Tag   string    `yaml:"tag"`
	Value yaml.Node `yaml:"value"`
}

type yamlSample struct {
	T    float64   `yaml:"t"`
	Gyro []float64 `yaml:"gyro"`
	Accl []float64 `yaml:"accl"`
	Tags []yamlTag `yaml:"tags"`
}

type yamlDocument struct {
	Camera         yamlCamera   `yaml:"camera"`
	IMUOrientation *string      `yaml:"imu_orientation"`
	Samples        []yamlSample `yaml:"samples"`
}

// yamlInput serves a telemetry dump decoded fully into memory.
type yamlInput struct {
	camera         yamlCamera
	imuOrientation *string
	samples        []telemetry.Sample
}

var _ telemetry.Input = (*yamlInput)(nil)

func decodeYAML(r io.Reader, name string) (telemetry.Input, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewDecodeError(name, "empty input", nil)
		}
		return nil, NewDecodeError(name, "unrecognized content", err)
	}

	if doc.Camera.Type == "" {
		return nil, NewDecodeError(name, "camera type is missing", nil)
	}

	in := &yamlInput{
		camera:         doc.Camera,
		imuOrientation: doc.IMUOrientation,
		samples:        make([]telemetry.Sample, 0, len(doc.Samples)),
	}
	for i := range doc.Samples {
		s, err := toSample(&doc.Samples[i])
		if err != nil {
			return nil, NewDecodeError(name, fmt.Sprintf("sample %d", i), err)
		}
		in.samples = append(in.samples, s)
	}
	return in, nil
}

func toSample(ys *yamlSample) (telemetry.Sample, error) {
	s := telemetry.Sample{TimestampMs: ys.T}

	var err error
	if s.Gyro, err = toVector(ys.Gyro); err != nil {
		return s, fmt.Errorf("gyro: %w", err)
	}
	if s.Accl, err = toVector(ys.Accl); err != nil {
		return s, fmt.Errorf("accl: %w", err)
	}

	if len(ys.Tags) == 0 {
		return s, nil
	}
	s.Tags = make(telemetry.TagMap, len(ys.Tags))
	for _, yt := range ys.Tags {
		group, err := telemetry.ParseGroupID(yt.Group)
		if err != nil {
			return s, err
		}
		tag, err := telemetry.ParseTagID(yt.Tag)
		if err != nil {
			return s, err
		}
		if _, ok := s.Tags.Get(group, tag); ok {
			return s, fmt.Errorf("duplicate tag %s/%s", group, tag)
		}

		value, err := toTagValue(&yt.Value)
		if err != nil {
			return s, fmt.Errorf("tag %s/%s: %w", group, tag, err)
		}
		s.Tags.Set(group, tag, value)
	}
	return s, nil
}

func toVector(v []float64) (*telemetry.Vector3, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 3 {
		return nil, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return &telemetry.Vector3{v[0], v[1], v[2]}, nil
}

// toTagValue infers the tag kind from the node: scalars keep their type,
// mappings and sequences become JSON documents with key order preserved.
func toTagValue(n *yaml.Node) (telemetry.TagValue, error) {
	if n.Kind == yaml.AliasNode {
		return toTagValue(n.Alias)
	}

	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return telemetry.StringValue(n.Value), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return telemetry.TagValue{}, err
			}
			return telemetry.IntValue(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return telemetry.TagValue{}, err
			}
			return telemetry.FloatValue(f), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return telemetry.TagValue{}, err
			}
			return telemetry.BoolValue(b), nil
		}
		return telemetry.TagValue{}, fmt.Errorf("unsupported value type %s", n.ShortTag())

	case yaml.MappingNode, yaml.SequenceNode:
		var buf bytes.Buffer
		if err := writeJSON(&buf, n); err != nil {
			return telemetry.TagValue{}, err
		}
		return telemetry.JSONValue(buf.Bytes())

	case 0:
		return telemetry.TagValue{}, errors.New("value is missing")
	}
	return telemetry.TagValue{}, fmt.Errorf("unsupported node kind %d", n.Kind)
}

// writeJSON encodes n as JSON. Unlike decoding into a map first, the order of
// mapping keys is kept.
func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.MarshalWithOption(n.Content[i].Value, json.DisableHTMLEscape())
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err = writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		p, err := json.MarshalWithOption(v, json.DisableHTMLEscape())
		if err != nil {
			return err
		}
		buf.Write(p)
		return nil
	}
	return fmt.Errorf("unsupported node kind %d", n.Kind)
}

func (in *yamlInput) CameraType() string {
	return in.camera.Type
}

func (in *yamlInput) CameraModel() *string {
	return in.camera.Model
}

func (in *yamlInput) IMUOrientation() *string {
	return in.imuOrientation
}

func (in *yamlInput) Samples(context.Context) (telemetry.Iterator[*telemetry.Sample], error) {
	return telemetry.NewSliceIterator(in.samples), nil
}

func (in *yamlInput) Close() error {
	return nil
}
