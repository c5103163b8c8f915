package catalog

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSourceDataset(t *testing.T) {
	cat, err := MockSource{Seed: 7}.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.Projects(), 4)
	assert.Len(t, cat.Ingredients(), 9)
	assert.Len(t, cat.Releases(), 2)
	assert.Len(t, cat.Straps(), 2)
	assert.Len(t, cat.Steps(), 7)

	knobs := cat.Knobs()
	require.Len(t, knobs, 100)
	overridden := 0
	for _, k := range knobs {
		if k.IsOverridden {
			overridden++
		}
	}
	assert.Equal(t, 6, overridden)
	assert.Equal(t, "Standard_Knob_Config_7", knobs[6].Name)

	deps := cat.BuildDeps()
	require.Len(t, deps, 50)
	assert.Equal(t, "R100", deps[0].ID)
	assert.Equal(t, "v24.0.0", deps[0].Version)
	assert.True(t, deps[0].IsModified)
	assert.False(t, deps[1].IsModified)
	assert.Equal(t, "v23.5.0", deps[5].Version)

	lines := cat.TestLines()
	require.Len(t, lines, 450)
	counts := map[TestStatus]int{}
	for _, l := range lines {
		counts[l.Status]++
		assert.True(t, l.Included)
	}
	assert.Equal(t, map[TestStatus]int{TestPassed: 300, TestFailed: 50, TestRunning: 50, TestPending: 50}, counts)
	assert.Equal(t, "TL_1000", lines[0].ID)
	assert.Equal(t, "perf_val_case_000", lines[0].Name)
	assert.Equal(t, "SUT_NODE_01", lines[0].Node)
	assert.Equal(t, "Sanity_Memory_Memicals", lines[0].GoalName)
	assert.Equal(t, "SBF1S2", lines[0].HWConfig)
	assert.Equal(t, "A", lines[0].SWConfig)
}

func TestMockSourceIsReproducible(t *testing.T) {
	a := MockData(42, 20)
	b := MockData(42, 20)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different data (-a +b):\n%s", diff)
	}
}

func TestMockSourceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MockSource{}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	cat, err := New(MockData(1, 10))
	require.NoError(t, err)

	lines := cat.TestLines()
	lines[0].Included = false
	assert.True(t, cat.TestLines()[0].Included)
}

func TestCatalogLookups(t *testing.T) {
	cat, err := New(MockData(1, 10))
	require.NoError(t, err)

	p, err := cat.Project("p3")
	require.NoError(t, err)
	assert.Equal(t, "Arrow Lake-H", p.Name)

	step, err := cat.Step("step6")
	require.NoError(t, err)
	assert.Equal(t, KindTest, step.Kind)

	_, err = cat.Project("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = cat.Step("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewValidation(t *testing.T) {
	t.Run("empty catalog is valid", func(t *testing.T) {
		cat, err := New(Data{})
		require.NoError(t, err)
		assert.Empty(t, cat.TestLines())
	})

	t.Run("duplicate step ids", func(t *testing.T) {
		_, err := New(Data{Steps: []WorkflowStep{
			{ID: "a", Kind: KindTest},
			{ID: "a", Kind: KindTest},
		}})
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("unknown step kind", func(t *testing.T) {
		_, err := New(Data{Steps: []WorkflowStep{{ID: "a", Kind: "DEPLOY"}}})
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("empty test line id", func(t *testing.T) {
		_, err := New(Data{TestLines: []TestLine{{ID: " ", Status: TestPassed}}})
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("unknown test status", func(t *testing.T) {
		_, err := New(Data{TestLines: []TestLine{{ID: "x", Status: "Skipped"}}})
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})
}

func TestYAMLRoundTripThroughFile(t *testing.T) {
	cat, err := New(MockData(3, 12))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "catalog.yaml")
	require.NoError(t, WriteFile(path, cat))

	loaded, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(cat.Data(), loaded.Data()); diff != "" {
		t.Fatalf("catalog changed across export (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("projects:\n  - id: p1\n    colour: red\n"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cat, err := Decode(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, cat.Steps())
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Load(context.Background())
	assert.Error(t, err)
}
