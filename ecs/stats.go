package ecs

import "sort"

// PoolStats summarises the committed and staged contents of a pool.
type PoolStats struct {
	EntityCount    int
	LoadedCount    int
	ComponentCount int
	PendingAdds    int
	PendingRemoves int
	Components     []ComponentStats
}

// ComponentStats counts the committed components of one type.
type ComponentStats struct {
	Type  ComponentType
	Name  string
	Count int
}

// CollectStats walks the pool and returns its statistics. It scans every entity and is
// meant for debugging and reports, not for per-frame logic.
func (p *EntityPool) CollectStats() PoolStats {
	stats := PoolStats{EntityCount: p.entities.Len()}
	stats.PendingAdds, stats.PendingRemoves = p.entities.Pending()

	counts := make(map[ComponentType]int)
	for e := range p.entities.Values() {
		if e.loaded {
			stats.LoadedCount++
		}
		for t := range e.components.Keys() {
			counts[t]++
			stats.ComponentCount++
		}
	}

	for t, n := range counts {
		name, ok := p.registry.NameOf(t)
		if !ok {
			name = t.String()
		}
		stats.Components = append(stats.Components, ComponentStats{Type: t, Name: name, Count: n})
	}
	sort.Slice(stats.Components, func(i, j int) bool {
		return stats.Components[i].Name < stats.Components[j].Name
	})
	return stats
}
