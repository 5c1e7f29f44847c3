package state

import (
	"context"
	"fmt"

	"github.com/hoppxi/lightroom/pkg/command"
	"github.com/hoppxi/lightroom/pkg/displayinfo"
)

// BrightnessState is the one record the control surface owns. Output is
// bound once by New and never changes afterwards.
type BrightnessState struct {
	Label  string
	Level  float64
	Output string
}

// New seeds Level from the display tool and binds Output to the primary
// output. A missing primary output is returned as an error and is meant to
// stop the program.
func New(ctx context.Context, exec command.Executor, tool, label string) (*BrightnessState, error) {
	level, err := displayinfo.ReadBrightness(ctx, exec, tool)
	if err != nil {
		return nil, err
	}

	output, err := displayinfo.ResolveOutput(ctx, exec, tool)
	if err != nil {
		return nil, err
	}

	return &BrightnessState{
		Label:  label,
		Level:  level,
		Output: output,
	}, nil
}

// Text is what the label next to the slider shows.
func (s *BrightnessState) Text() string {
	return fmt.Sprintf("%s: %.2f", s.Label, s.Level)
}
