package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/murmur/internal/entry"
)

// Scenario is a scripted sequence of intents plus the state expected after
// the last one.
type Scenario struct {
	// Name identifies the scenario in reports.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Steps are dispatched in order, one intent each.
	Steps []Step `yaml:"steps"`

	// Expect is checked against the final state. Omitted fields are not
	// checked.
	Expect Expect `yaml:"expect,omitempty"`
}

// Step is a single intent. Exactly one field is set, named by Kind.
type Step struct {
	Kind string

	Create    *CreateStep
	Update    *UpdateStep
	Complete  *Target
	Archive   *Target
	Unarchive *Target
	Snooze    *SnoozeStep
	Delete    *Target
	Submit    *SubmitStep
	Apply     []ResultStep
	Fail      *FailStep
	Dismiss   *struct{}
}

// Step kinds, as written in YAML.
const (
	StepCreate    = "create"
	StepUpdate    = "update"
	StepComplete  = "complete"
	StepArchive   = "archive"
	StepUnarchive = "unarchive"
	StepSnooze    = "snooze"
	StepDelete    = "delete"
	StepSubmit    = "submit"
	StepApply     = "apply"
	StepFail      = "fail"
	StepDismiss   = "dismiss"
)

// UnmarshalYAML decodes a single-key mapping such as {complete: {entry: 1}}.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	key, body, err := singleKey(node)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	s.Kind = key

	switch key {
	case StepCreate:
		s.Create = &CreateStep{}
		return body.Decode(s.Create)
	case StepUpdate:
		s.Update = &UpdateStep{}
		return body.Decode(s.Update)
	case StepComplete:
		s.Complete = &Target{}
		return body.Decode(s.Complete)
	case StepArchive:
		s.Archive = &Target{}
		return body.Decode(s.Archive)
	case StepUnarchive:
		s.Unarchive = &Target{}
		return body.Decode(s.Unarchive)
	case StepSnooze:
		s.Snooze = &SnoozeStep{}
		return body.Decode(s.Snooze)
	case StepDelete:
		s.Delete = &Target{}
		return body.Decode(s.Delete)
	case StepSubmit:
		s.Submit = &SubmitStep{}
		return body.Decode(s.Submit)
	case StepApply:
		s.Apply = []ResultStep{}
		return body.Decode(&s.Apply)
	case StepFail:
		s.Fail = &FailStep{}
		return body.Decode(s.Fail)
	case StepDismiss:
		s.Dismiss = &struct{}{}
		return nil
	default:
		return fmt.Errorf("step: unknown kind %q", key)
	}
}

// CreateStep creates an entry directly. Category defaults to note, source to
// voice, and both transcript and source_text to content.
type CreateStep struct {
	Content    string         `yaml:"content"`
	Category   entry.Category `yaml:"category"`
	Summary    string         `yaml:"summary"`
	SourceText string         `yaml:"source_text"`
	Transcript string         `yaml:"transcript"`
	Priority   *int           `yaml:"priority"`
	Due        *string        `yaml:"due"`
	Cadence    *entry.Cadence `yaml:"cadence"`
	Source     entry.Source   `yaml:"source"`
}

// UpdateStep patches the entry with the given ordinal.
type UpdateStep struct {
	Entry       int             `yaml:"entry"`
	Content     *string         `yaml:"content"`
	Summary     *string         `yaml:"summary"`
	Category    *entry.Category `yaml:"category"`
	Priority    *int            `yaml:"priority"`
	Due         *string         `yaml:"due"`
	Cadence     *entry.Cadence  `yaml:"cadence"`
	Status      *entry.Status   `yaml:"status"`
	SnoozeUntil *string         `yaml:"snooze_until"`
}

// Target addresses an entry by creation ordinal.
type Target struct {
	Entry int `yaml:"entry"`
}

// SnoozeStep snoozes an entry, for an hour when Until is absent.
type SnoozeStep struct {
	Entry int     `yaml:"entry"`
	Until *string `yaml:"until"`
}

// SubmitStep marks a transcript as in flight.
type SubmitStep struct {
	Transcript string       `yaml:"transcript"`
	Source     entry.Source `yaml:"source"`
}

// FailStep reports a processing failure.
type FailStep struct {
	Message string `yaml:"message"`
}

// ResultStep is one result inside an apply step.
type ResultStep struct {
	Kind string

	Create   *ResultCreate
	Update   *ResultUpdate
	Complete *ResultRef
	Archive  *ResultRef
}

// UnmarshalYAML decodes a single-key mapping such as {archive: {ref: 2}}.
func (r *ResultStep) UnmarshalYAML(node *yaml.Node) error {
	key, body, err := singleKey(node)
	if err != nil {
		return fmt.Errorf("result: %w", err)
	}
	r.Kind = key

	switch key {
	case StepCreate:
		r.Create = &ResultCreate{}
		return body.Decode(r.Create)
	case StepUpdate:
		r.Update = &ResultUpdate{}
		return body.Decode(r.Update)
	case StepComplete:
		r.Complete = &ResultRef{}
		return body.Decode(r.Complete)
	case StepArchive:
		r.Archive = &ResultRef{}
		return body.Decode(r.Archive)
	default:
		return fmt.Errorf("result: unknown kind %q", key)
	}
}

// ResultRef references an entry the way the reasoning service does. Ref is
// converted to the ordinal's short id; otherwise ID is used verbatim.
type ResultRef struct {
	Ref    int    `yaml:"ref"`
	ID     string `yaml:"id"`
	Reason string `yaml:"reason"`
}

// ResultCreate mirrors a create_entries item.
type ResultCreate struct {
	Content    string         `yaml:"content"`
	Category   entry.Category `yaml:"category"`
	SourceText string         `yaml:"source_text"`
	Summary    string         `yaml:"summary"`
	Priority   *int           `yaml:"priority"`
	Due        *string        `yaml:"due"`
	Cadence    *entry.Cadence `yaml:"cadence"`
}

// ResultUpdate mirrors an update_entries item.
type ResultUpdate struct {
	ResultRef   `yaml:",inline"`
	Content     *string         `yaml:"content"`
	Summary     *string         `yaml:"summary"`
	Category    *entry.Category `yaml:"category"`
	Priority    *int            `yaml:"priority"`
	Due         *string         `yaml:"due"`
	Cadence     *entry.Cadence  `yaml:"cadence"`
	Status      *entry.Status   `yaml:"status"`
	SnoozeUntil *string         `yaml:"snooze_until"`
}

// Expect describes the final state.
type Expect struct {
	Rev        *uint64 `yaml:"rev"`
	Processing *bool   `yaml:"processing"`
	// Toast, when present, must equal the toast. An empty string expects no
	// toast.
	Toast   *string       `yaml:"toast"`
	Count   *int          `yaml:"count"`
	Entries []ExpectEntry `yaml:"entries"`
	Absent  []int         `yaml:"absent"`
}

// ExpectEntry describes one surviving entry. Only present fields are checked.
type ExpectEntry struct {
	Entry      int             `yaml:"entry"`
	Content    *string         `yaml:"content"`
	Summary    *string         `yaml:"summary"`
	Category   *entry.Category `yaml:"category"`
	Status     *entry.Status   `yaml:"status"`
	Priority   *int            `yaml:"priority"`
	Due        *string         `yaml:"due"`
	Cadence    *entry.Cadence  `yaml:"cadence"`
	Transcript *string         `yaml:"transcript"`
	Source     *entry.Source   `yaml:"source"`
	Completed  *bool           `yaml:"completed"`
	Snoozed    *bool           `yaml:"snoozed"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates data against the scenario schema, then decodes it.
func Parse(data []byte) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

func singleKey(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, fmt.Errorf("line %d: expected a mapping with exactly one key", node.Line)
	}
	return node.Content[0].Value, node.Content[1], nil
}
