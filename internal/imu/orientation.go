package imu

import (
	"fmt"
	"strings"

	"github.com/roman-kulish/gyro2bb/internal/telemetry"
)

const identitySpec = "xyz"

// Identity leaves every axis in place with its sign unchanged.
var Identity = Orientation{
	spec: identitySpec,
	axes: [3]AxisMap{
		{Target: 0, Sign: 1},
		{Target: 1, Sign: 1},
		{Target: 2, Sign: 1},
	},
}

// InvalidOrientationError reports an orientation string that is not a signed
// permutation of the x, y and z axes.
type InvalidOrientationError struct {
	Spec   string
	Reason string
}

func (e *InvalidOrientationError) Error() string {
	return fmt.Sprintf("invalid IMU orientation '%s': %s", e.Spec, e.Reason)
}

// AxisMap tells where a source axis lands and whether it is negated.
type AxisMap struct {
	Target int     // Destination slot, 0..2
	Sign   float64 // -1 or +1
}

// Orientation is a validated signed axis permutation such as "xZy". Letters
// are read left to right as the output axes; an uppercase letter negates the
// source axis it names.
type Orientation struct {
	spec string
	axes [3]AxisMap // indexed by source axis
}

// ParseOrientation validates spec and builds its remap table. A nil spec
// yields Identity.
func ParseOrientation(spec *string) (Orientation, error) {
	if spec == nil {
		return Identity, nil
	}

	s := *spec
	if len(s) != 3 {
		return Orientation{}, &InvalidOrientationError{Spec: s, Reason: "expected exactly 3 characters"}
	}

	o := Orientation{spec: s}
	var seen [3]bool
	for target := 0; target < 3; target++ {
		c := s[target]

		source := strings.IndexByte(identitySpec, lower(c))
		if source < 0 {
			return Orientation{}, &InvalidOrientationError{
				Spec:   s,
				Reason: fmt.Sprintf("invalid axis '%c' at position %d", c, target),
			}
		}
		if seen[source] {
			return Orientation{}, &InvalidOrientationError{
				Spec:   s,
				Reason: fmt.Sprintf("axis '%c' repeated", identitySpec[source]),
			}
		}
		seen[source] = true

		sign := 1.0
		if c >= 'X' && c <= 'Z' {
			sign = -1
		}
		o.axes[source] = AxisMap{Target: target, Sign: sign}
	}
	return o, nil
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// String returns the orientation in its textual form.
func (o Orientation) String() string {
	return o.spec
}

// Axes returns the remap table indexed by source axis.
func (o Orientation) Axes() [3]AxisMap {
	return o.axes
}

// Apply rotates v into the oriented frame.
func (o Orientation) Apply(v telemetry.Vector3) telemetry.Vector3 {
	var out telemetry.Vector3
	for source, m := range o.axes {
		out[m.Target] = m.Sign * v[source]
	}
	return out
}

// ApplyTo is Apply for optional readings; nil stays nil.
func (o Orientation) ApplyTo(v *telemetry.Vector3) *telemetry.Vector3 {
	if v == nil {
		return nil
	}
	out := o.Apply(*v)
	return &out
}
