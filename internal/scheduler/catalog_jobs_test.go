package scheduler

import (
	"errors"
	"testing"

	"github.com/aristath/boxengine/internal/domain"
	testingpkg "github.com/aristath/boxengine/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	paths []string
	err   error
}

func (m *mockLoader) LoadFrom(path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

type mockSource struct {
	boxes []domain.Box
}

func (m *mockSource) All() []domain.Box { return m.boxes }
func (m *mockSource) Len() int          { return len(m.boxes) }

func TestCatalogReloadJob_Name(t *testing.T) {
	job := NewCatalogReloadJob(nil, "data/catalog.json")
	assert.Equal(t, "catalog_reload", job.Name())
}

func TestCatalogReloadJob_Run(t *testing.T) {
	loader := &mockLoader{}
	job := NewCatalogReloadJob(loader, "data/catalog.json")
	job.SetLogger(zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, []string{"data/catalog.json"}, loader.paths)
}

func TestCatalogReloadJob_RunError(t *testing.T) {
	cause := errors.New("disk gone")
	job := NewCatalogReloadJob(&mockLoader{err: cause}, "x.json")

	err := job.Run()
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "x.json")
}

func TestCatalogReloadJob_NoLoader(t *testing.T) {
	assert.Error(t, NewCatalogReloadJob(nil, "x.json").Run())
}

func TestCatalogSnapshotJob_Run(t *testing.T) {
	var gotPath string
	var gotBoxes []domain.Box
	write := func(path string, boxes []domain.Box) error {
		gotPath, gotBoxes = path, boxes
		return nil
	}

	job := NewCatalogSnapshotJob(&mockSource{boxes: testingpkg.NewCatalogFixture()}, write, "data/catalog.msgpack")
	job.SetLogger(zerolog.Nop())

	assert.Equal(t, "catalog_snapshot", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, "data/catalog.msgpack", gotPath)
	assert.Len(t, gotBoxes, 4)
}

func TestCatalogSnapshotJob_SkipsEmptyCatalog(t *testing.T) {
	called := false
	write := func(string, []domain.Box) error {
		called = true
		return nil
	}

	job := NewCatalogSnapshotJob(&mockSource{}, write, "x.msgpack")
	require.NoError(t, job.Run())
	assert.False(t, called)
}

func TestCatalogSnapshotJob_WriteError(t *testing.T) {
	write := func(string, []domain.Box) error { return errors.New("read-only") }

	job := NewCatalogSnapshotJob(&mockSource{boxes: testingpkg.NewCatalogFixture()}, write, "x.msgpack")
	assert.Error(t, job.Run())
}
