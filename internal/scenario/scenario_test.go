package scenario

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/murmur/internal/entry"
)

func TestRun_TestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			require.NoError(t, err)

			result, err := Run(context.Background(), s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Steps))
		})
	}
}

func TestRun_LifecycleTrace(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "lifecycle.yaml"))
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	var revs []uint64
	var kinds []string
	for _, ev := range result.Trace {
		revs = append(revs, ev.Rev)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []uint64{1, 2, 3, 3, 4, 5, 6, 7, 8}, revs)
	assert.Equal(t, []string{
		"create", "create", "complete", "complete", "archive",
		"unarchive", "snooze", "update", "delete",
	}, kinds)
}

func TestRun_IsDeterministic(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "batch.yaml"))
	require.NoError(t, err)

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, OrdinalID(1), first.Final.Entries[0].ID)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	s, err := Parse([]byte(`
name: wrong
steps:
  - create: {content: "a"}
  - dismiss: {}
expect:
  rev: 5
  toast: "boom"
  entries:
    - entry: 1
      status: completed
    - entry: 2
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "rev: expected 5, got 2")
	assert.Contains(t, joined, `toast: expected "boom", got ""`)
	assert.Contains(t, joined, `entry 1: status: expected "completed", got "active"`)
	assert.Contains(t, joined, "entry 2: not found")
}

func TestRun_DismissAlwaysBumps(t *testing.T) {
	s, err := Parse([]byte(`
name: dismiss
steps:
  - fail: {message: "oops"}
  - dismiss: {}
  - dismiss: {}
expect:
  rev: 3
  toast: ""
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestParse_DecodesSteps(t *testing.T) {
	s, err := Parse([]byte(`
name: decode
steps:
  - create: {content: "Run", category: habit, cadence: weekly, priority: 3, source: text}
  - update: {entry: 1, status: snoozed, snooze_until: "2026-02-01T08:00:00Z"}
  - apply:
      - update: {ref: 1, summary: "Run", reason: "rename"}
      - archive: {id: "abc123"}
`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 3)

	c := s.Steps[0]
	assert.Equal(t, StepCreate, c.Kind)
	require.NotNil(t, c.Create)
	assert.Equal(t, entry.CategoryHabit, c.Create.Category)
	assert.Equal(t, entry.CadenceWeekly, *c.Create.Cadence)
	assert.Equal(t, 3, *c.Create.Priority)
	assert.Equal(t, entry.SourceText, c.Create.Source)

	u := s.Steps[1]
	assert.Equal(t, StepUpdate, u.Kind)
	assert.Equal(t, 1, u.Update.Entry)
	assert.Equal(t, entry.StatusSnoozed, *u.Update.Status)

	a := s.Steps[2]
	assert.Equal(t, StepApply, a.Kind)
	require.Len(t, a.Apply, 2)
	assert.Equal(t, 1, a.Apply[0].Update.Ref)
	assert.Equal(t, "rename", a.Apply[0].Update.Reason)
	assert.Equal(t, "abc123", a.Apply[1].Archive.ID)
}

func TestParse_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ``},
		{"missing name", "steps:\n  - dismiss: {}\n"},
		{"empty name", "name: \"\"\nsteps:\n  - dismiss: {}\n"},
		{"no steps", "name: x\nsteps: []\n"},
		{"unknown step", "name: x\nsteps:\n  - explode: {entry: 1}\n"},
		{"two keys in a step", "name: x\nsteps:\n  - complete: {entry: 1}\n    archive: {entry: 1}\n"},
		{"unknown field", "name: x\nsteps:\n  - complete: {entry: 1, why: now}\n"},
		{"bad category", "name: x\nsteps:\n  - create: {content: a, category: chore}\n"},
		{"zero ordinal", "name: x\nsteps:\n  - delete: {entry: 0}\n"},
		{"phrase as timestamp", "name: x\nsteps:\n  - snooze: {entry: 1, until: tomorrow}\n"},
		{"unknown top-level field", "name: x\nsteps:\n  - dismiss: {}\nextra: 1\n"},
		{"negative rev", "name: x\nsteps:\n  - dismiss: {}\nexpect:\n  rev: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
