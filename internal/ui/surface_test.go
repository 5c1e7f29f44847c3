package ui

import (
	"errors"
	"math"
	"slices"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/hoppxi/lightroom/internal/state"
	"github.com/hoppxi/lightroom/pkg/command/commandtest"
)

func newSurface(t *testing.T, fake *commandtest.Fake, onFatal func(error)) *Surface {
	t.Helper()

	app := test.NewApp()
	t.Cleanup(app.Quit)

	st := &state.BrightnessState{Label: "Brightness", Level: 0.73, Output: "HDMI-0"}
	return New(app, st, fake, "xrandr", onFatal)
}

func TestNewAppliesInitialLevel(t *testing.T) {
	fake := &commandtest.Fake{}
	s := newSurface(t, fake, nil)

	if got := s.label.Text; got != "Brightness: 0.73" {
		t.Errorf("label = %q, want %q", got, "Brightness: 0.73")
	}
	if s.slider.Value != 0.73 || s.slider.Min != 0 || s.slider.Max != 1 {
		t.Errorf("slider = %v in [%v, %v]", s.slider.Value, s.slider.Min, s.slider.Max)
	}
	if s.window.Title() != Title {
		t.Errorf("title = %q, want %q", s.window.Title(), Title)
	}

	want := [][]string{{"xrandr", "--output", "HDMI-0", "--brightness", "0.73"}}
	if got := fake.Started(); !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("started %q, want %q", got, want)
	}
}

func TestSliderChange(t *testing.T) {
	fake := &commandtest.Fake{}
	s := newSurface(t, fake, nil)

	s.slider.OnChanged(0.2)

	if got := s.Level(); got != 0.2 {
		t.Errorf("level = %v, want the unclamped 0.2", got)
	}
	if got := s.label.Text; got != "Brightness: 0.20" {
		t.Errorf("label = %q, want %q", got, "Brightness: 0.20")
	}

	started := fake.Started()
	last := started[len(started)-1]
	if want := []string{"xrandr", "--output", "HDMI-0", "--brightness", "0.4"}; !slices.Equal(last, want) {
		t.Errorf("started %q, want %q", last, want)
	}
}

func TestLaunchFailureIsFatal(t *testing.T) {
	launch := errors.New("exec: \"xrandr\": executable file not found in $PATH")
	fake := &commandtest.Fake{StartErr: launch}

	var fatalErr error
	s := newSurface(t, fake, func(err error) { fatalErr = err })

	if !errors.Is(fatalErr, launch) {
		t.Fatalf("fatal error = %v, want %v", fatalErr, launch)
	}
	if s.label.Text != "" {
		t.Errorf("label = %q, want it untouched", s.label.Text)
	}
}

func TestOutputIsBound(t *testing.T) {
	s := newSurface(t, &commandtest.Fake{}, nil)
	if s.Output() != "HDMI-0" {
		t.Errorf("Output = %q, want HDMI-0", s.Output())
	}
}

func TestWindowSize(t *testing.T) {
	s := newSurface(t, &commandtest.Fake{}, nil)

	if got := s.window.Canvas().Size(); got != fyne.NewSize(windowWidth, windowHeight) {
		t.Errorf("initial size = %v, want 240x80", got)
	}

	minSize := s.window.Content().MinSize()
	if minSize.Width < windowWidth || minSize.Height < windowHeight {
		t.Errorf("content min size = %v, want at least 240x80", minSize)
	}
}

func TestSetLevel(t *testing.T) {
	tests := []struct {
		level  float64
		sent   string
		slider float64
	}{
		{0.4, "0.4", 0.4},
		{1.0, "1", 1.0},
		{1.5, "0.4", 1.0},
		{0.2, "0.4", 0.2},
		{-1, "0.4", 0},
	}

	for _, tt := range tests {
		fake := &commandtest.Fake{}
		s := newSurface(t, fake, nil)

		if err := s.SetLevel(tt.level); err != nil {
			t.Fatalf("SetLevel(%v): %v", tt.level, err)
		}

		if got := s.Level(); got != tt.level {
			t.Errorf("SetLevel(%v): level = %v, want it stored as given", tt.level, got)
		}

		started := fake.Started()
		last := started[len(started)-1]
		if want := []string{"xrandr", "--output", "HDMI-0", "--brightness", tt.sent}; !slices.Equal(last, want) {
			t.Errorf("SetLevel(%v) started %q, want %q", tt.level, last, want)
		}
		if len(started) != 2 {
			t.Errorf("SetLevel(%v) started %d processes, want the initial one plus one", tt.level, len(started))
		}

		if math.Abs(s.slider.Value-tt.slider) > 1e-9 {
			t.Errorf("SetLevel(%v): slider = %v, want %v", tt.level, s.slider.Value, tt.slider)
		}
	}
}

func TestSetLevelKeepsPrecision(t *testing.T) {
	fake := &commandtest.Fake{}
	s := newSurface(t, fake, nil)

	if err := s.SetLevel(0.735); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	started := fake.Started()
	if got := started[len(started)-1][4]; got != "0.735" {
		t.Errorf("sent %q, want 0.735 unrounded", got)
	}
	if got := s.Level(); got != 0.735 {
		t.Errorf("level = %v, want 0.735", got)
	}
}

func TestSetLevelRejectsNonFinite(t *testing.T) {
	fake := &commandtest.Fake{}
	s := newSurface(t, fake, nil)

	for _, level := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := s.SetLevel(level); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("SetLevel(%v) error = %v, want ErrInvalidLevel", level, err)
		}
	}
	if got := s.Level(); got != 0.73 {
		t.Errorf("level = %v, want 0.73", got)
	}
	if got := len(fake.Started()); got != 1 {
		t.Errorf("started %d processes, want only the initial one", got)
	}
}

func TestSetLevelReportsLaunchFailure(t *testing.T) {
	fake := &commandtest.Fake{}
	var fatalErr error
	s := newSurface(t, fake, func(err error) { fatalErr = err })

	launch := errors.New("exec: \"xrandr\": executable file not found in $PATH")
	fake.StartErr = launch

	if err := s.SetLevel(0.8); !errors.Is(err, launch) {
		t.Errorf("SetLevel error = %v, want %v", err, launch)
	}
	if fatalErr != nil {
		t.Errorf("remote SetLevel stopped the program: %v", fatalErr)
	}
}

func TestSetLabel(t *testing.T) {
	s := newSurface(t, &commandtest.Fake{}, nil)

	s.SetLabel("Screen")

	if got := s.label.Text; got != "Screen: 0.73" {
		t.Errorf("label = %q, want %q", got, "Screen: 0.73")
	}
}

func TestShow(t *testing.T) {
	s := newSurface(t, &commandtest.Fake{}, nil)
	s.Show()

	if s.window.Title() != Title {
		t.Errorf("title = %q after Show", s.window.Title())
	}
}
