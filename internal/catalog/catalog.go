// Package catalog holds the static, read-only dataset the dashboard
// renders: projects, ingredients, releases, knobs, straps, build
// dependencies, workflow steps and test lines.
//
// A Catalog is loaded once at startup through a Source and never mutated
// afterwards. Callers that need a mutable copy of the test lines (the
// inclusion flag) take one with TestLines().
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrNotFound       = errors.New("not found")
)

type Project struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	CodeName     string `yaml:"code_name"`
	LastAccessed string `yaml:"last_accessed"`
}

type Ingredient struct {
	ID            string `yaml:"id"`
	Type          string `yaml:"type"`
	Name          string `yaml:"name"`
	ReleasesCount int    `yaml:"releases_count"`
	SiliconFamily string `yaml:"silicon_family"`
	Segment       string `yaml:"segment,omitempty"`
	Step          string `yaml:"step,omitempty"`
	Validation    string `yaml:"validation,omitempty"`
	Description   string `yaml:"description,omitempty"`
}

// Release describes both ingredient releases and build dependencies.
type Release struct {
	ID           string `yaml:"id"`
	Version      string `yaml:"version"`
	ChangedDeps  string `yaml:"changed_deps"`
	ReleasedBy   string `yaml:"released_by"`
	ReleasedDate string `yaml:"released_date"`
	ReleasedWW   string `yaml:"released_ww"`
	IsModified   bool   `yaml:"is_modified,omitempty"`
}

type KnobStatus string

const (
	KnobActive  KnobStatus = "active"
	KnobWarning KnobStatus = "warning"
	KnobError   KnobStatus = "error"
)

type Knob struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Path         string     `yaml:"path"`
	DisplayValue string     `yaml:"display_value"`
	RawValue     string     `yaml:"raw_value"`
	Status       KnobStatus `yaml:"status"`
	IsOverridden bool       `yaml:"is_overridden,omitempty"`
}

type Strap struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type StepKind string

const (
	KindUnifiedPatch  StepKind = "UNIFIED_PATCH"
	KindFirmwareBuild StepKind = "FIRMWARE_BUILD"
	KindTest          StepKind = "TEST"
)

// IsBuild reports whether the kind runs the binary build machine.
func (k StepKind) IsBuild() bool {
	return k == KindUnifiedPatch || k == KindFirmwareBuild
}

func (k StepKind) valid() bool {
	switch k {
	case KindUnifiedPatch, KindFirmwareBuild, KindTest:
		return true
	}
	return false
}

// StepStatus is display-only; it is not driven by the run machines.
type StepStatus string

const (
	StepSuccess    StepStatus = "Success"
	StepInProgress StepStatus = "In progress"
	StepPending    StepStatus = "Pending"
	StepFailed     StepStatus = "Failed"
)

type WorkflowStep struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Status StepStatus `yaml:"status"`
	Kind   StepKind   `yaml:"kind"`
}

type TestStatus string

const (
	TestPassed  TestStatus = "Passed"
	TestFailed  TestStatus = "Failed"
	TestRunning TestStatus = "Running"
	TestPending TestStatus = "Pending"
)

type TestLine struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Node     string     `yaml:"node"`
	Duration string     `yaml:"duration"`
	Status   TestStatus `yaml:"status"`
	Included bool       `yaml:"included"`
	GoalName string     `yaml:"goal_name"`
	HWConfig string     `yaml:"hw_config"`
	SWConfig string     `yaml:"sw_config"`
}

// Catalog is the immutable dataset. Use the accessor methods; they hand
// out copies so a caller cannot mutate shared state by accident.
type Catalog struct {
	projects    []Project
	ingredients []Ingredient
	releases    []Release
	knobs       []Knob
	straps      []Strap
	buildDeps   []Release
	steps       []WorkflowStep
	testLines   []TestLine
}

// Source supplies a catalog at startup.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Data is the plain, serialisable form of a catalog.
type Data struct {
	Projects    []Project      `yaml:"projects"`
	Ingredients []Ingredient   `yaml:"ingredients"`
	Releases    []Release      `yaml:"releases"`
	Knobs       []Knob         `yaml:"knobs"`
	Straps      []Strap        `yaml:"straps"`
	BuildDeps   []Release      `yaml:"build_deps"`
	Steps       []WorkflowStep `yaml:"workflow_steps"`
	TestLines   []TestLine     `yaml:"test_lines"`
}

// New validates data and freezes it into a Catalog.
func New(data Data) (*Catalog, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	return &Catalog{
		projects:    append([]Project(nil), data.Projects...),
		ingredients: append([]Ingredient(nil), data.Ingredients...),
		releases:    append([]Release(nil), data.Releases...),
		knobs:       append([]Knob(nil), data.Knobs...),
		straps:      append([]Strap(nil), data.Straps...),
		buildDeps:   append([]Release(nil), data.BuildDeps...),
		steps:       append([]WorkflowStep(nil), data.Steps...),
		testLines:   append([]TestLine(nil), data.TestLines...),
	}, nil
}

func (d Data) validate() error {
	if err := uniqueIDs("project", len(d.Projects), func(i int) string { return d.Projects[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("knob", len(d.Knobs), func(i int) string { return d.Knobs[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("build dependency", len(d.BuildDeps), func(i int) string { return d.BuildDeps[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("workflow step", len(d.Steps), func(i int) string { return d.Steps[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("test line", len(d.TestLines), func(i int) string { return d.TestLines[i].ID }); err != nil {
		return err
	}
	for _, step := range d.Steps {
		if !step.Kind.valid() {
			return fmt.Errorf("%w: workflow step %q has unknown kind %q", ErrInvalidCatalog, step.ID, step.Kind)
		}
	}
	for _, line := range d.TestLines {
		switch line.Status {
		case TestPassed, TestFailed, TestRunning, TestPending:
		default:
			return fmt.Errorf("%w: test line %q has unknown status %q", ErrInvalidCatalog, line.ID, line.Status)
		}
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := strings.TrimSpace(id(i))
		if key == "" {
			return fmt.Errorf("%w: %s at index %d has an empty id", ErrInvalidCatalog, kind, i)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidCatalog, kind, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Data returns a deep-enough copy of the catalog for serialisation.
func (c *Catalog) Data() Data {
	return Data{
		Projects:    c.Projects(),
		Ingredients: c.Ingredients(),
		Releases:    c.Releases(),
		Knobs:       c.Knobs(),
		Straps:      c.Straps(),
		BuildDeps:   c.BuildDeps(),
		Steps:       c.Steps(),
		TestLines:   c.TestLines(),
	}
}

func (c *Catalog) Projects() []Project       { return append([]Project(nil), c.projects...) }
func (c *Catalog) Ingredients() []Ingredient { return append([]Ingredient(nil), c.ingredients...) }
func (c *Catalog) Releases() []Release       { return append([]Release(nil), c.releases...) }
func (c *Catalog) Knobs() []Knob             { return append([]Knob(nil), c.knobs...) }
func (c *Catalog) Straps() []Strap           { return append([]Strap(nil), c.straps...) }
func (c *Catalog) BuildDeps() []Release      { return append([]Release(nil), c.buildDeps...) }
func (c *Catalog) Steps() []WorkflowStep     { return append([]WorkflowStep(nil), c.steps...) }
func (c *Catalog) TestLines() []TestLine     { return append([]TestLine(nil), c.testLines...) }

func (c *Catalog) Project(id string) (Project, error) {
	for _, p := range c.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
}

func (c *Catalog) Step(id string) (WorkflowStep, error) {
	for _, s := range c.steps {
		if s.ID == id {
			return s, nil
		}
	}
	return WorkflowStep{}, fmt.Errorf("workflow step %q: %w", id, ErrNotFound)
}
