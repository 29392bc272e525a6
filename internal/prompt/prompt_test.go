package prompt

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/nibzard/cleansim/internal/sim"
)

func TestValidateCount(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"3", nil},
		{" 12 ", nil},
		{"0", ErrNotPositive},
		{"-4", ErrNotPositive},
		{"2.5", ErrNotWholeNumber},
		{"", ErrNotWholeNumber},
		{"many", ErrNotWholeNumber},
	}
	for _, tt := range tests {
		if got := ValidateCount(tt.in); !errors.Is(got, tt.want) {
			t.Errorf("ValidateCount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"0.01", nil},
		{"30", nil},
		{"0", ErrNotPositive},
		{"-1", ErrNotPositive},
		{"Inf", ErrNotPositive},
		{"NaN", ErrNotPositive},
		{"soon", ErrNotNumber},
	}
	for _, tt := range tests {
		if got := ValidateSeconds(tt.in); !errors.Is(got, tt.want) {
			t.Errorf("ValidateSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatePercentage(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"25", nil},
		{"100", nil},
		{"0.5", nil},
		{"0", ErrPercentageRange},
		{"100.1", ErrPercentageRange},
		{"-5", ErrPercentageRange},
		{"half", ErrNotNumber},
	}
	for _, tt := range tests {
		if got := ValidatePercentage(tt.in); !errors.Is(got, tt.want) {
			t.Errorf("ValidatePercentage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidationMessages(t *testing.T) {
	if ErrNotPositive.Error() != "Value should be greater than 0" {
		t.Errorf("unexpected message %q", ErrNotPositive)
	}
	if ErrPercentageRange.Error() != "Percentage should be greater than 0 up to 100" {
		t.Errorf("unexpected message %q", ErrPercentageRange)
	}
}

func TestRawAnswers(t *testing.T) {
	got, err := raw{cols: "4", rows: "2", robots: "3", choice: "1", request: "1.5"}.answers()
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	want := Answers{Cols: 4, Rows: 2, Robots: 3, Mode: sim.ModeTime, Request: 1.5}
	if got != want {
		t.Errorf("answers = %+v, want %+v", got, want)
	}

	got, err = raw{cols: "4", rows: "2", robots: "3", choice: "2", request: "80"}.answers()
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if got.Mode != sim.ModePercentage || got.Request != 80 {
		t.Errorf("answers = %+v", got)
	}
}

func TestRawAnswersErrors(t *testing.T) {
	tests := []struct {
		name string
		r    raw
		want error
	}{
		{"zero robots", raw{cols: "4", rows: "2", robots: "0", choice: "1", request: "1"}, ErrNotPositive},
		{"bad choice", raw{cols: "4", rows: "2", robots: "1", choice: "3", request: "1"}, ErrInvalidModeChoice},
		{"time zero", raw{cols: "4", rows: "2", robots: "1", choice: "1", request: "0"}, ErrNotPositive},
		{"percentage too high", raw{cols: "4", rows: "2", robots: "1", choice: "2", request: "120"}, ErrPercentageRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.r.answers(); !errors.Is(err, tt.want) {
				t.Errorf("answers error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAskKeepsDefaultsWhenSubmittedUnchanged(t *testing.T) {
	forms := 0
	p := &Prompter{run: func(*huh.Form) error {
		forms++
		return nil
	}}
	defaults := Answers{Cols: 10, Rows: 5, Robots: 3, Mode: sim.ModePercentage, Request: 50}

	got, err := p.Ask(defaults)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != defaults {
		t.Errorf("Ask = %+v, want %+v", got, defaults)
	}
	if forms != 2 {
		t.Errorf("forms shown = %d, want 2", forms)
	}
}

func TestAskAborted(t *testing.T) {
	p := &Prompter{run: func(*huh.Form) error { return huh.ErrUserAborted }}
	_, err := p.Ask(Answers{})
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Ask error = %v, want ErrAborted", err)
	}
}

func TestAskWithoutDefaultsFailsValidation(t *testing.T) {
	p := &Prompter{run: func(*huh.Form) error { return nil }}
	if _, err := p.Ask(Answers{}); !errors.Is(err, ErrNotWholeNumber) {
		t.Errorf("Ask error = %v, want ErrNotWholeNumber", err)
	}
}

func TestDebrief(t *testing.T) {
	a := Answers{Cols: 4, Rows: 3, Robots: 2, Mode: sim.ModeTime, Request: 1}
	want := "The program will use 2 robots to clean a room with 3 rows and 4 columns, equating to a surface area of 12 blocks"
	if got := a.Debrief(); got != want {
		t.Errorf("Debrief = %q, want %q", got, want)
	}
}
