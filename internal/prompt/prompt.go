// Package prompt asks the user for the room, the fleet and the cleaning
// request on the console.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nibzard/cleansim/internal/sim"
)

// Validation messages shown under the offending field.
var (
	ErrNotPositive       = errors.New("Value should be greater than 0")
	ErrPercentageRange   = errors.New("Percentage should be greater than 0 up to 100")
	ErrNotWholeNumber    = errors.New("Value should be a whole number")
	ErrNotNumber         = errors.New("Value should be a number")
	ErrInvalidModeChoice = errors.New("Please choose 1 or 2")
)

// ErrAborted is returned when the user leaves the form.
var ErrAborted = huh.ErrUserAborted

// Answers are the values collected from the user.
type Answers struct {
	Cols    int
	Rows    int
	Robots  int
	Mode    sim.Mode
	Request float64
}

// Params converts the answers into engine parameters.
func (a Answers) Params() sim.Params {
	return sim.Params{
		Cols:    a.Cols,
		Rows:    a.Rows,
		Robots:  a.Robots,
		Request: sim.Request{Mode: a.Mode, Value: a.Request},
	}
}

// Debrief describes the run about to start.
func (a Answers) Debrief() string {
	return Debrief(a.Params())
}

// Debrief returns the line announcing the room and fleet of p.
func Debrief(p sim.Params) string {
	return fmt.Sprintf("The program will use %d robots to clean a room with %d rows and %d columns, equating to a surface area of %d blocks",
		p.Robots, p.Rows, p.Cols, p.Total())
}

// ValidateCount accepts a whole number greater than zero.
func ValidateCount(s string) error {
	_, err := parseCount(s)
	return err
}

// ValidateSeconds accepts a positive number of seconds.
func ValidateSeconds(s string) error {
	_, err := parseSeconds(s)
	return err
}

// ValidatePercentage accepts a percentage in (0, 100].
func ValidatePercentage(s string) error {
	_, err := parsePercentage(s)
	return err
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotWholeNumber
	}
	if n <= 0 {
		return 0, ErrNotPositive
	}
	return n, nil
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrNotNumber
	}
	return f, nil
}

func parseSeconds(s string) (float64, error) {
	f, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if err := sim.Duration(f).Validate(); err != nil {
		return 0, ErrNotPositive
	}
	return f, nil
}

func parsePercentage(s string) (float64, error) {
	f, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if err := sim.TargetCoverage(f).Validate(); err != nil {
		return 0, ErrPercentageRange
	}
	return f, nil
}

// parseChoice maps the menu choice "1" or "2" to a mode.
func parseChoice(s string) (sim.Mode, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return sim.ModeTime, nil
	case "2":
		return sim.ModePercentage, nil
	}
	return "", ErrInvalidModeChoice
}

// raw holds the form field values before conversion.
type raw struct {
	cols, rows, robots string
	choice             string
	request            string
}

func (r raw) answers() (Answers, error) {
	var a Answers
	var err error
	if a.Cols, err = parseCount(r.cols); err != nil {
		return Answers{}, fmt.Errorf("columns: %w", err)
	}
	if a.Rows, err = parseCount(r.rows); err != nil {
		return Answers{}, fmt.Errorf("rows: %w", err)
	}
	if a.Robots, err = parseCount(r.robots); err != nil {
		return Answers{}, fmt.Errorf("robots: %w", err)
	}
	if a.Mode, err = parseChoice(r.choice); err != nil {
		return Answers{}, err
	}
	if a.Mode == sim.ModeTime {
		a.Request, err = parseSeconds(r.request)
	} else {
		a.Request, err = parsePercentage(r.request)
	}
	if err != nil {
		return Answers{}, fmt.Errorf("request: %w", err)
	}
	return a, nil
}

// Prompter runs the console forms.
type Prompter struct {
	// run shows a form and blocks until it is submitted or aborted.
	run func(*huh.Form) error
}

// New returns a Prompter that draws on the terminal.
func New() *Prompter {
	return &Prompter{run: func(f *huh.Form) error { return f.Run() }}
}

// Ask collects answers from the user. Fields start out filled with the
// values of defaults.
func (p *Prompter) Ask(defaults Answers) (Answers, error) {
	r := fromDefaults(defaults)

	room := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the number of boxes in the x direction (columns)").
				Value(&r.cols).
				Validate(ValidateCount),
			huh.NewInput().
				Title("Enter the number of boxes in the y direction (rows)").
				Value(&r.rows).
				Validate(ValidateCount),
			huh.NewInput().
				Title("Enter the number of robots").
				Value(&r.robots).
				Validate(ValidateCount),
			huh.NewSelect[string]().
				Title("How would you like to clean the room").
				Options(
					huh.NewOption("1. Time: clean for a number of seconds", "1"),
					huh.NewOption("2. Percentage: clean until part of the room is done", "2"),
				).
				Value(&r.choice),
		),
	).WithShowHelp(true)
	if err := p.run(room); err != nil {
		return Answers{}, err
	}

	mode, err := parseChoice(r.choice)
	if err != nil {
		return Answers{}, err
	}
	if mode != defaults.Mode {
		r.request = ""
	}
	request := huh.NewInput().Value(&r.request)
	if mode == sim.ModeTime {
		request = request.
			Title("Please enter the number of seconds to clean the room").
			Validate(ValidateSeconds)
	} else {
		request = request.
			Title("Please enter the percentage of the room to be cleaned").
			Validate(ValidatePercentage)
	}
	if err := p.run(huh.NewForm(huh.NewGroup(request)).WithShowHelp(true)); err != nil {
		return Answers{}, err
	}

	return r.answers()
}

func fromDefaults(d Answers) raw {
	var r raw
	if d.Cols > 0 {
		r.cols = strconv.Itoa(d.Cols)
	}
	if d.Rows > 0 {
		r.rows = strconv.Itoa(d.Rows)
	}
	if d.Robots > 0 {
		r.robots = strconv.Itoa(d.Robots)
	}
	r.choice = "2"
	if d.Mode == sim.ModeTime {
		r.choice = "1"
	}
	if d.Request > 0 {
		r.request = strconv.FormatFloat(d.Request, 'g', -1, 64)
	}
	return r
}
