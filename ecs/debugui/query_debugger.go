package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagecs/ecs"
)

// QueryDebugger lets the user pick registered component types and shows which entities
// carry all of them.
type QueryDebugger struct {
	selectedComponentTypes map[string]bool
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{
		selectedComponentTypes: make(map[string]bool),
	}
}

func (qd *QueryDebugger) Render(pool *ecs.EntityPool) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}

	for _, name := range pool.Registry().Names() {
		selected := qd.selectedComponentTypes[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selectedComponentTypes[name] = true
			} else {
				delete(qd.selectedComponentTypes, name)
			}
		}
	}

	imgui.Separator()

	types := resolveTypes(pool.Registry(), qd.Selection())
	if len(types) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := matchEntities(pool, types)
	imgui.Text(fmt.Sprintf("Matching Entities: %d / %d", len(matching), pool.Len()))

	if imgui.TreeNodeStr("Entities") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
		if imgui.BeginTableV("QueryEntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity ID")
			imgui.TableSetupColumn("Name")
			imgui.TableSetupColumn("Components")
			imgui.TableHeadersRow()

			for _, e := range matching {
				imgui.TableNextRow()
				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e.Id()))
				imgui.TableSetColumnIndex(1)
				imgui.Text(e.Name())
				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", e.ComponentCount()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Selection returns the selected component names in sorted order.
func (qd *QueryDebugger) Selection() []string {
	names := make([]string, 0, len(qd.selectedComponentTypes))
	for name := range qd.selectedComponentTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Toggle flips the selection of a component name.
func (qd *QueryDebugger) Toggle(name string) {
	if qd.selectedComponentTypes[name] {
		delete(qd.selectedComponentTypes, name)
	} else {
		qd.selectedComponentTypes[name] = true
	}
}

func resolveTypes(registry *ecs.ComponentRegistry, names []string) []ecs.ComponentType {
	types := make([]ecs.ComponentType, 0, len(names))
	for _, name := range names {
		if t, ok := registry.TypeByName(name); ok {
			types = append(types, t)
		}
	}
	return types
}

func matchEntities(pool *ecs.EntityPool, types []ecs.ComponentType) []*ecs.Entity {
	var matching []*ecs.Entity
	for _, e := range pool.Sorted() {
		if e.HasComponents(types...) {
			matching = append(matching, e)
		}
	}
	return matching
}
