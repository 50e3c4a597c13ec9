package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const usageText = `Usage: gyro2bb [--imuo SPEC] <input>

Converts the IMU telemetry of a camera recording into a blackbox text stream
written to stdout.

Options:
`

type Config struct {
	InputPath      string
	IMUOrientation *string // Overrides the orientation declared by the recording
}

// NewConfigFromArgs parses the command line arguments, excluding the program
// name. Options may follow the input path. Usage is written to output when the
// arguments are invalid.
func NewConfigFromArgs(args []string, output io.Writer) (*Config, error) {
	c := &Config{}

	fs := flag.NewFlagSet("gyro2bb", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}

	var imuo string
	fs.StringVar(&imuo, "imuo", "", "IMU orientation as a signed axis permutation, e.g. xyz, yXZ, zxY")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "imuo" {
			c.IMUOrientation = &imuo
		}
	})

	switch {
	case len(positional) == 0:
		err = errors.New("input path is required")
	case len(positional) > 1:
		err = fmt.Errorf("unexpected arguments: %v", positional[1:])
	case positional[0] == "":
		err = errors.New("input path is required")
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.InputPath = positional[0]
	return c, nil
}

// parseInterspersed parses flags that may appear before or after positional
// arguments. Everything after a "--" terminator is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
