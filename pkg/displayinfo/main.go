package displayinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hoppxi/lightroom/pkg/command"
)

// DefaultBrightness is reported whenever the current level cannot be queried.
const DefaultBrightness = 0.5

const brightnessKey = "Brightness:"

var (
	ErrOutputNotFound        = errors.New("no connected primary output")
	ErrBrightnessUnparseable = errors.New("brightness value is not a number")
)

var primaryPattern = regexp.MustCompile(`([0-9A-Z-]+) connected primary`)

type DisplayInfo struct {
	Output string  `json:"output"`
	Level  float64 `json:"level"`
}

// ParseOutput returns the name of the first output listed as
// "<name> connected primary".
func ParseOutput(stdout string) (string, error) {
	m := primaryPattern.FindStringSubmatch(stdout)
	if m == nil {
		return "", ErrOutputNotFound
	}
	return m[1], nil
}

// ResolveOutput asks tool for its output list and picks the primary one.
func ResolveOutput(ctx context.Context, exec command.Executor, tool string) (string, error) {
	res, err := exec.Run(ctx, tool)
	if err != nil {
		return "", fmt.Errorf("failed to list outputs: %w", err)
	}
	return ParseOutput(res.Stdout)
}

// ParseBrightness reads the value of the first "Brightness:" line of verbose
// output. Output without such a line yields DefaultBrightness.
func ParseBrightness(stdout string) (float64, error) {
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.Contains(line, brightnessKey) {
			continue
		}

		value := strings.ReplaceAll(line, brightnessKey, "")
		value = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, value)

		level, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrBrightnessUnparseable, value, err)
		}
		return level, nil
	}
	return DefaultBrightness, nil
}

// ReadBrightness queries tool in verbose mode. Failing to run the tool, or
// any output on its stderr, is logged and reported as DefaultBrightness.
func ReadBrightness(ctx context.Context, exec command.Executor, tool string) (float64, error) {
	res, err := exec.Run(ctx, tool, "--verbose")
	if err != nil {
		log.Printf("ERROR: %v", err)
		return DefaultBrightness, nil
	}

	if res.Stderr != "" {
		log.Print(res.Stderr)
		return DefaultBrightness, nil
	}

	return ParseBrightness(res.Stdout)
}

func GetDisplayInfo(ctx context.Context, exec command.Executor, tool string) (*DisplayInfo, error) {
	output, err := ResolveOutput(ctx, exec, tool)
	if err != nil {
		return nil, err
	}

	level, err := ReadBrightness(ctx, exec, tool)
	if err != nil {
		return nil, err
	}

	return &DisplayInfo{
		Output: output,
		Level:  level,
	}, nil
}

func GetDisplayInfoJSON(ctx context.Context, exec command.Executor, tool string) ([]byte, error) {
	info, err := GetDisplayInfo(ctx, exec, tool)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(info, "", "  ")
}
