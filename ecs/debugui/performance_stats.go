package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagecs/ecs"
)

// PerformanceStats shows frame times, pool counts and per-system timings of a state.
type PerformanceStats struct {
	history *frameHistory
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{history: newFrameHistory(historyFrames)}
}

func (ps *PerformanceStats) Render(state *ecs.State, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.history.add(deltaTime * 1000.0)

	pool := state.Pool().CollectStats()
	stats := state.Stats()

	imgui.Text(fmt.Sprintf("State: %s (frame %d)", stats.Name, stats.Frames))
	imgui.Text(fmt.Sprintf("Entities: %d (%d loaded)", pool.EntityCount, pool.LoadedCount))
	imgui.Text(fmt.Sprintf("Components: %d", pool.ComponentCount))
	imgui.Text(fmt.Sprintf("Pending: +%d / -%d", pool.PendingAdds, pool.PendingRemoves))

	avgFrameTime := ps.history.average()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.history.samples[0], int32(len(ps.history.samples)))

	if imgui.TreeNodeStr("Compute Systems") {
		renderSystemTable("ComputeTable", stats.Compute)
		imgui.TreePop()
	}
	if imgui.TreeNodeStr("Render Systems") {
		renderSystemTable("RenderTable", stats.Render)
		imgui.TreePop()
	}

	imgui.End()
}

func renderSystemTable(id string, systems []ecs.SystemStats) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV(id, 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Runs")
	imgui.TableSetupColumn("Last")
	imgui.TableSetupColumn("Avg")
	imgui.TableSetupColumn("Max")
	imgui.TableHeadersRow()

	for _, sys := range systems {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(sys.Name)
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
		imgui.TableNextColumn()
		imgui.Text(sys.LastDuration.String())
		imgui.TableNextColumn()
		imgui.Text(sys.AvgDuration.String())
		imgui.TableNextColumn()
		imgui.Text(sys.MaxDuration.String())
	}

	imgui.EndTable()
}

// frameHistory is a ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	index   int
	filled  int
}

func newFrameHistory(n int) *frameHistory {
	if n <= 0 {
		n = 1
	}
	return &frameHistory{samples: make([]float32, n)}
}

func (h *frameHistory) add(ms float32) {
	h.samples[h.index] = ms
	h.index = (h.index + 1) % len(h.samples)
	if h.filled < len(h.samples) {
		h.filled++
	}
}

// average is taken over the recorded samples only.
func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var total float32
	for _, ms := range h.samples {
		total += ms
	}
	return total / float32(h.filled)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
