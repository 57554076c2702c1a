package icons

import (
	"errors"
	"testing"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/kv"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// width 460 fits (460-40)/100 = 4 icons per row
var fourPerRow = types.Viewport{Width: 460, Height: 800}

func TestDefaultSlot(t *testing.T) {
	e := NewEngine(kv.NewMemory(), DefaultConfig(), nil)

	require.Equal(t, 4, DefaultConfig().IconsPerRow(fourPerRow.Width))
	assert.Equal(t, types.Point{X: 20, Y: 20}, e.PositionFor("Calculator", 0, fourPerRow))
	assert.Equal(t, types.Point{X: 120, Y: 120}, e.PositionFor("Settings", 5, fourPerRow), "row 1, col 1")
	assert.Equal(t, types.Point{X: 320, Y: 20}, e.PositionFor("Gallery", 3, fourPerRow))
}

func TestNarrowViewportKeepsOneColumn(t *testing.T) {
	cfg := DefaultConfig()

	for _, width := range []int{0, 50, 139} {
		assert.Equal(t, 1, cfg.IconsPerRow(width))
	}
	assert.Equal(t, types.Point{X: 20, Y: 320}, cfg.Slot(3, 50))
}

func TestPositionForIsDeterministic(t *testing.T) {
	e := NewEngine(kv.NewMemory(), DefaultConfig(), nil)
	vp := types.Viewport{Width: 1366, Height: 768}

	for i := 0; i < 15; i++ {
		assert.Equal(t, e.PositionFor("App", i, vp), e.PositionFor("App", i, vp))
	}
}

func TestRecordDropUpserts(t *testing.T) {
	store := kv.NewMemory()
	e := NewEngine(store, DefaultConfig(), nil)

	require.NoError(t, e.RecordDrop("Notes", types.Point{X: 400, Y: 300}))
	require.NoError(t, e.RecordDrop("Clock", types.Point{X: 10, Y: 10}))
	require.NoError(t, e.RecordDrop("Notes", types.Point{X: 410, Y: 310}))

	assert.Equal(t, []Placement{
		{ID: "Notes", Position: types.Point{X: 410, Y: 310}},
		{ID: "Clock", Position: types.Point{X: 10, Y: 10}},
	}, e.Saved(), "replace in place, else append")
	assert.Equal(t, types.Point{X: 410, Y: 310}, e.PositionFor("Notes", 2, fourPerRow))

	reloaded := NewEngine(store, DefaultConfig(), nil)
	assert.Equal(t, e.Saved(), reloaded.Saved())
}

func TestPlacementsSurviveRegistryReorder(t *testing.T) {
	e := NewEngine(kv.NewMemory(), DefaultConfig(), nil)
	require.NoError(t, e.RecordDrop("Maps", types.Point{X: 777, Y: 55}))

	before := e.Layout([]string{"Calculator", "Maps", "Clock"}, fourPerRow)
	after := e.Layout([]string{"Maps", "Clock", "Calculator"}, fourPerRow)

	assert.Equal(t, types.Point{X: 777, Y: 55}, before[1].Position)
	assert.Equal(t, types.Point{X: 777, Y: 55}, after[0].Position)
	assert.Equal(t, types.Point{X: 120, Y: 20}, after[1].Position, "unsaved icons follow their index")
}

func TestMalformedStoredPositionsLoadEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"corrupt":     `[{"id":`,
		"wrong shape": `{"Notes": {"x": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.Set(Namespace+"/"+StorageKey, []byte(raw)))

			e := NewEngine(store, DefaultConfig(), nil)
			assert.Empty(t, e.Saved())
			assert.Equal(t, types.Point{X: 20, Y: 20}, e.PositionFor("Notes", 0, fourPerRow))
		})
	}
}

func TestEngineUsesOwnNamespace(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(StorageKey, []byte(`[{"id":"Notes","position":{"x":1,"y":1}}]`)))

	e := NewEngine(store, DefaultConfig(), nil)
	assert.Empty(t, e.Saved(), "un-namespaced key belongs to someone else")

	require.NoError(t, e.RecordDrop("Clock", types.Point{X: 5, Y: 5}))
	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Contains(t, keys, "icons/icon-positions")
}

func TestForgetAndReset(t *testing.T) {
	e := NewEngine(kv.NewMemory(), DefaultConfig(), nil)
	require.NoError(t, e.RecordDrop("Notes", types.Point{X: 1, Y: 1}))
	require.NoError(t, e.RecordDrop("Clock", types.Point{X: 2, Y: 2}))

	require.NoError(t, e.Forget("Notes"))
	require.NoError(t, e.Forget("Unknown"))
	assert.Equal(t, []Placement{{ID: "Clock", Position: types.Point{X: 2, Y: 2}}}, e.Saved())

	require.NoError(t, e.Reset())
	assert.Empty(t, e.Saved())
}

type failingStore struct {
	kv.Store
}

func (failingStore) Set(string, []byte) error { return errors.New("disk full") }

func TestRecordDropKeepsStateOnWriteFailure(t *testing.T) {
	e := NewEngine(failingStore{kv.NewMemory()}, DefaultConfig(), nil)

	assert.Error(t, e.RecordDrop("Notes", types.Point{X: 1, Y: 1}))
	assert.Empty(t, e.Saved())
}
