// Package scenario loads JSON scenario files: a fixed room, fleet and
// termination request, optionally with a scripted direction sequence that
// replays a run exactly.
//
// Files are validated against Schema before they are decoded.
package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/cleansim/internal/robot"
	"github.com/nibzard/cleansim/internal/sim"
)

// ErrInvalidScenario is wrapped by every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a decoded scenario file.
type Scenario struct {
	Name       string   `json:"name,omitempty"`
	Cols       int      `json:"cols"`
	Rows       int      `json:"rows"`
	Robots     int      `json:"robots"`
	Mode       string   `json:"mode"`
	Request    float64  `json:"request"`
	Seed       uint64   `json:"seed,omitempty"`
	Directions []string `json:"directions,omitempty"`

	path  string
	steps []robot.Direction
}

// FieldError is one schema violation, located by its JSON path.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = fmt.Errorf("adding scenario schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Load reads, validates and decodes the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Parse validates and decodes scenario JSON.
func Parse(data []byte) (*Scenario, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	sch, err := schema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, schemaErrors(err))
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	steps, err := robot.ParseDirections(s.Directions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	s.steps = steps
	if _, err := s.Params(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return &s, nil
}

// schemaErrors flattens a jsonschema validation error into its leaf causes.
func schemaErrors(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	var errs []error
	collectSchemaErrors(ve, &errs)
	return errors.Join(errs...)
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]error) {
	if len(err.Causes) == 0 {
		*out = append(*out, &FieldError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	var b strings.Builder
	for i, part := range parts {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Path returns the file the scenario was loaded from, if any.
func (s *Scenario) Path() string {
	return s.path
}

// Params returns the engine parameters described by the scenario.
func (s *Scenario) Params() (sim.Params, error) {
	mode, err := sim.ParseMode(s.Mode)
	if err != nil {
		return sim.Params{}, err
	}
	p := sim.Params{
		Cols:    s.Cols,
		Rows:    s.Rows,
		Robots:  s.Robots,
		Request: sim.Request{Mode: mode, Value: s.Request},
	}
	return p, p.Validate()
}

// Scripted reports whether the scenario replays a fixed direction sequence.
func (s *Scenario) Scripted() bool {
	return len(s.steps) > 0
}

// Steps returns a copy of the scripted directions.
func (s *Scenario) Steps() []robot.Direction {
	return append([]robot.Direction(nil), s.steps...)
}

// Sampler returns the movement source for the scenario: the scripted
// sequence when one is given, otherwise nil so the caller's seeded sampler
// applies.
func (s *Scenario) Sampler() robot.Sampler {
	if !s.Scripted() {
		return nil
	}
	return robot.NewScriptedSampler(s.steps...)
}
