package operation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hoppxi/lightroom/pkg/command"
)

// Levels outside (MinBrightness, MaxBrightness] are never sent to the display.
const (
	MinBrightness = 0.4
	MaxBrightness = 1.0
)

var ErrNoOutput = errors.New("no output to set brightness on")

type display struct{}

// Display is the exported instance.
var Display display

// Clamp returns v when MinBrightness < v <= MaxBrightness and MinBrightness
// for anything else, NaN included.
func Clamp(v float64) float64 {
	if v > MinBrightness && v <= MaxBrightness {
		return v
	}
	return MinBrightness
}

// FormatBrightness renders v as the shortest plain decimal that parses back
// to v ("0.73", "1").
func FormatBrightness(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SetBrightness launches `tool --output <output> --brightness <v>` with v
// clamped, and returns without waiting for the tool to finish.
func (d *display) SetBrightness(exec command.Executor, tool, output string, v float64) error {
	if output == "" {
		return ErrNoOutput
	}

	err := exec.Start(tool, "--output", output, "--brightness", FormatBrightness(Clamp(v)))
	if err != nil {
		return fmt.Errorf("failed to set brightness: %w", err)
	}
	return nil
}
