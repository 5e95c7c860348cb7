// Package debugui provides Dear ImGui debugging windows for ECS states: an entity
// browser, a component inspector, a component type overview, a query debugger and
// performance statistics. Everything here runs as render systems, so it must be driven
// between the ImGui backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagecs/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a state singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem calls the render function of every ImguiItem and updates the
// ImguiInputState singleton. Register it as a render system.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if !i.InputState.Exists() {
		ecs.SetSingleton(frame.State, ImguiInputState{})
	}
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Iter() {
		if item.Render != nil {
			item.Render()
		}
	}
}

// Register adds the debugui components to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent(registry, ecs.WithClone(func(src *ImguiItem) (*ImguiItem, error) {
		return &ImguiItem{Render: src.Render}, nil
	}))
}

// DebugUI is a render system drawing the debugging windows for the state it runs in.
type DebugUI struct {
	Browser     *EntityBrowser
	Inspector   *ComponentInspector
	Components  *ComponentViewer
	Queries     *QueryDebugger
	Performance *PerformanceStats
}

// New creates a DebugUI with every window enabled.
func New() *DebugUI {
	return &DebugUI{
		Browser:     NewEntityBrowser(100),
		Inspector:   NewComponentInspector(),
		Components:  NewComponentViewer(),
		Queries:     NewQueryDebugger(),
		Performance: NewPerformanceStats(120),
	}
}

func (d *DebugUI) SystemName() string { return "DebugUI" }

func (d *DebugUI) Execute(frame *ecs.UpdateFrame) {
	state := frame.State
	if state == nil {
		return
	}
	pool := state.Pool()

	var selected ecs.EntityId
	if d.Browser != nil {
		d.Browser.Render(pool)
		selected = d.Browser.Selected()
	}
	if d.Inspector != nil {
		d.Inspector.Render(pool, selected)
	}
	if d.Components != nil {
		if name, ok := d.Components.Render(pool); ok && d.Browser != nil {
			d.Browser.SetFilter(name)
		}
	}
	if d.Queries != nil {
		d.Queries.Render(pool)
	}
	if d.Performance != nil {
		d.Performance.Render(state, float32(frame.DeltaTime))
	}
}
