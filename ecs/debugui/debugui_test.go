package debugui

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stagecs/ecs"
)

type position struct {
	X, Y float32
}

type label struct {
	Text   string `yaml:"text"`
	Hidden string `yaml:"-"`
	Size   uint8
	Bold   bool
	note   string
}

func newPool(t *testing.T) *ecs.EntityPool {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent(registry, ecs.WithName[position]("Position"))
	ecs.RegisterComponent(registry, ecs.WithName[label]("Label"))

	pool := ecs.NewEntityPool(registry)
	ship := pool.NewEntity("ship")
	ship.AddComponent(position{X: 1})
	ship.AddComponent(label{Text: "USS"})
	pool.Spawn(ship)

	rock := pool.NewEntity("rock")
	rock.AddComponent(position{X: 2})
	pool.Spawn(rock)

	marker := pool.NewEntity("marker")
	marker.AddComponent(label{Text: "here"})
	pool.Spawn(marker)

	pool.Tick()
	require.Equal(t, 3, pool.Len())
	return pool
}

func TestBuildEntityRows(t *testing.T) {
	rows := buildEntityRows(newPool(t))
	require.Len(t, rows, 3)

	assert.Equal(t, "ship", rows[0].Name)
	assert.Equal(t, []string{"Label", "Position"}, rows[0].ComponentTypes)
	assert.Equal(t, 2, rows[0].ComponentCount)
	assert.Equal(t, "rock", rows[1].Name)
	assert.Equal(t, []string{"Position"}, rows[1].ComponentTypes)
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestFilterEntityRows(t *testing.T) {
	rows := buildEntityRows(newPool(t))

	assert.Len(t, filterEntityRows(rows, ""), 3)
	assert.Len(t, filterEntityRows(rows, "position"), 2)
	assert.Len(t, filterEntityRows(rows, "ROCK"), 1)
	assert.Empty(t, filterEntityRows(rows, "missing"))
}

func TestSortEntityRows(t *testing.T) {
	rows := buildEntityRows(newPool(t))

	sortEntityRows(rows, columnName, true)
	assert.Equal(t, []string{"marker", "rock", "ship"}, []string{rows[0].Name, rows[1].Name, rows[2].Name})

	sortEntityRows(rows, columnCount, false)
	assert.Equal(t, "ship", rows[0].Name)

	sortEntityRows(rows, columnID, true)
	assert.Equal(t, "ship", rows[0].Name)
	assert.Equal(t, "marker", rows[2].Name)
}

func TestPaging(t *testing.T) {
	rows := make([]EntityInfo, 25)
	assert.Equal(t, 3, pageCount(len(rows), 10))
	assert.Equal(t, 1, pageCount(0, 10))
	assert.Len(t, pageOf(rows, 0, 10), 10)
	assert.Len(t, pageOf(rows, 2, 10), 5)
	assert.Nil(t, pageOf(rows, 3, 10))
}

func TestEntityBrowserSelection(t *testing.T) {
	eb := NewEntityBrowser(0)
	assert.Equal(t, 100, eb.maxEntitiesPerPage)
	assert.Zero(t, eb.Selected())

	eb.Select(7)
	assert.Equal(t, ecs.EntityId(7), eb.Selected())

	eb.currentPage = 4
	eb.SetFilter("Position")
	assert.Equal(t, "Position", eb.filterText)
	assert.Zero(t, eb.currentPage)
}

func TestQueryDebuggerMatches(t *testing.T) {
	pool := newPool(t)
	qd := NewQueryDebugger()
	qd.Toggle("Position")
	qd.Toggle("Unknown")
	assert.Equal(t, []string{"Position", "Unknown"}, qd.Selection())

	types := resolveTypes(pool.Registry(), qd.Selection())
	require.Len(t, types, 1)
	matching := matchEntities(pool, types)
	require.Len(t, matching, 2)
	assert.Equal(t, "ship", matching[0].Name())

	qd.Toggle("Label")
	matching = matchEntities(pool, resolveTypes(pool.Registry(), qd.Selection()))
	require.Len(t, matching, 1)
	assert.Equal(t, "ship", matching[0].Name())

	qd.Toggle("Label")
	assert.Equal(t, []string{"Position", "Unknown"}, qd.Selection())
}

func TestReflectionCacheFields(t *testing.T) {
	rc := NewReflectionCache()
	fields := rc.GetFields(reflect.TypeFor[label]())

	require.Len(t, fields, 3)
	assert.Equal(t, "Text", fields[0].Name)
	assert.Equal(t, "text", fields[0].Label)
	assert.Equal(t, "Size", fields[1].Label)
	assert.Equal(t, "Bold", fields[2].Name)
	assert.Equal(t, reflect.Uint8, fields[1].Kind)
	assert.True(t, fields[2].Editable())

	type nested struct {
		At    *position
		Items []string
	}
	nestedFields := rc.GetFields(reflect.TypeFor[nested]())
	require.Len(t, nestedFields, 2)
	assert.True(t, nestedFields[0].IsPointer)
	assert.Equal(t, reflect.Struct, nestedFields[0].Kind)
	assert.False(t, nestedFields[0].Editable())
	assert.False(t, nestedFields[1].Editable())

	assert.Nil(t, rc.GetFields(reflect.TypeFor[int]()))
	assert.Equal(t, fields, rc.GetFields(reflect.TypeFor[label]()))
}

func TestSetField(t *testing.T) {
	pool := newPool(t)
	ship, ok := pool.Entity(1)
	require.True(t, ok)

	comp, ok := ship.Component(ecs.TypeFor[label]())
	require.True(t, ok)
	val := reflect.ValueOf(comp).Elem()

	assert.True(t, setField(val.Field(0), "Enterprise"))
	assert.True(t, setField(val.Field(2), uint64(12)))
	assert.False(t, setField(val.Field(2), uint64(300)))
	assert.True(t, setField(val.Field(3), true))
	assert.False(t, setField(val.Field(3), "yes"))
	assert.False(t, setField(val.Field(4), "private"))

	lbl, ok := ecs.GetComponent[label](ship)
	require.True(t, ok)
	assert.Equal(t, "Enterprise", lbl.Text)
	assert.Equal(t, uint8(12), lbl.Size)
	assert.True(t, lbl.Bold)

	pos, ok := ecs.GetComponent[position](ship)
	require.True(t, ok)
	assert.True(t, setField(reflect.ValueOf(pos).Elem().Field(1), float64(4.5)))
	assert.Equal(t, float32(4.5), pos.Y)
}

func TestFrameHistory(t *testing.T) {
	h := newFrameHistory(4)
	assert.Zero(t, h.average())

	h.add(10)
	h.add(20)
	assert.InDelta(t, 15, h.average(), 1e-6)

	for i := 0; i < 4; i++ {
		h.add(8)
	}
	assert.InDelta(t, 8, h.average(), 1e-6)
	assert.Equal(t, 4, h.filled)
}

func TestShare(t *testing.T) {
	assert.Zero(t, share(3, 0))
	assert.InDelta(t, 50, share(1, 2), 1e-9)
}
