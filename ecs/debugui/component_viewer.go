package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagecs/ecs"
)

// ComponentViewer lists every component type committed in a pool with its count.
// Clicking a row filters the entity browser by that type.
type ComponentViewer struct {
	selected string
}

func NewComponentViewer() *ComponentViewer {
	return &ComponentViewer{}
}

// Render draws the window and returns the name of a component type the user clicked.
func (cv *ComponentViewer) Render(pool *ecs.EntityPool) (string, bool) {
	if !imgui.BeginV("Component Types", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return "", false
	}

	stats := pool.CollectStats()
	clicked := ""

	imgui.Text(fmt.Sprintf("Types: %d", len(stats.Components)))
	imgui.Text(fmt.Sprintf("Components: %d", stats.ComponentCount))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ComponentTypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Share")
		imgui.TableHeadersRow()

		for _, comp := range stats.Components {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(comp.Name, cv.selected == comp.Name, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				cv.selected = comp.Name
				clicked = comp.Name
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", comp.Count))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f%%", share(comp.Count, stats.EntityCount)))
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked, clicked != ""
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
