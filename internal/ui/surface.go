package ui

import (
	"errors"
	"image/color"
	"log"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/hoppxi/lightroom/internal/state"
	"github.com/hoppxi/lightroom/pkg/command"
	"github.com/hoppxi/lightroom/pkg/operation"
)

const (
	Title = "Lightroom"

	windowWidth  = 240
	windowHeight = 80
	spacing      = 8
	sliderStep   = 0.01
)

var ErrInvalidLevel = errors.New("level is not a finite number")

// Surface is the window: a label above a slider bound to the level of one
// BrightnessState.
type Surface struct {
	window fyne.Window
	label  *widget.Label
	slider *widget.Slider

	exec command.Executor
	tool string

	mu    sync.Mutex
	state *state.BrightnessState

	onFatal func(error)
}

// New builds the window around st and applies the current level once.
// onFatal receives a brightness command that could not be launched; nil
// logs it and exits.
func New(app fyne.App, st *state.BrightnessState, exec command.Executor, tool string, onFatal func(error)) *Surface {
	if onFatal == nil {
		onFatal = fatal
	}

	s := &Surface{
		window:  app.NewWindow(Title),
		label:   widget.NewLabel(""),
		slider:  widget.NewSlider(0, 1),
		exec:    exec,
		tool:    tool,
		state:   st,
		onFatal: onFatal,
	}

	s.label.Alignment = fyne.TextAlignCenter
	s.slider.Step = sliderStep
	s.slider.Value = st.Level
	s.slider.OnChanged = s.changed

	s.window.SetContent(s.layout())
	s.window.Resize(fyne.NewSize(windowWidth, windowHeight))

	// the first value is applied like any later change
	s.changed(st.Level)
	return s
}

func (s *Surface) layout() fyne.CanvasObject {
	minSize := canvas.NewRectangle(color.Transparent)
	minSize.SetMinSize(fyne.NewSize(windowWidth, windowHeight))

	gap := canvas.NewRectangle(color.Transparent)
	gap.SetMinSize(fyne.NewSize(spacing, spacing))

	column := container.NewVBox(
		layout.NewSpacer(),
		s.label,
		gap,
		s.slider,
		layout.NewSpacer(),
	)

	return container.NewStack(minSize, container.NewPadded(column))
}

func (s *Surface) changed(level float64) {
	if err := s.apply(level); err != nil {
		s.onFatal(err)
	}
}

// apply stores level, sends it to the display and updates the label.
func (s *Surface) apply(level float64) error {
	s.mu.Lock()
	s.state.Level = level
	output := s.state.Output
	text := s.state.Text()
	s.mu.Unlock()

	if err := operation.Display.SetBrightness(s.exec, s.tool, output, level); err != nil {
		return err
	}

	s.label.SetText(text)
	return nil
}

func (s *Surface) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Level
}

func (s *Surface) Output() string {
	return s.state.Output
}

// SetLevel applies level from outside the UI. The level is stored and sent
// as given; the slider only follows it within its own range. Errors are
// returned to the caller instead of stopping the program.
func (s *Surface) SetLevel(level float64) error {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return ErrInvalidLevel
	}

	var err error
	fyne.DoAndWait(func() {
		onChanged := s.slider.OnChanged
		s.slider.OnChanged = nil
		s.slider.SetValue(level)
		s.slider.OnChanged = onChanged

		err = s.apply(level)
	})
	return err
}

func (s *Surface) Show() {
	fyne.Do(func() {
		s.window.Show()
		s.window.RequestFocus()
	})
}

// SetLabel replaces the text shown before the level.
func (s *Surface) SetLabel(label string) {
	fyne.Do(func() {
		s.mu.Lock()
		s.state.Label = label
		text := s.state.Text()
		s.mu.Unlock()

		s.label.SetText(text)
	})
}

// ShowAndRun blocks until the window is closed.
func (s *Surface) ShowAndRun() {
	s.window.ShowAndRun()
}

func fatal(err error) {
	log.Fatalf("ERROR: %v", err)
}
