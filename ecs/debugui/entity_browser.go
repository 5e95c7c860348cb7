package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagecs/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID             ecs.EntityId
	Name           string
	ComponentTypes []string
	ComponentCount int
}

const (
	columnID = iota
	columnName
	columnComponents
	columnCount
)

// EntityBrowser lists the committed entities of a pool with filtering, sorting and paging.
type EntityBrowser struct {
	filterText         string
	selectedEntityId   ecs.EntityId
	currentPage        int
	maxEntitiesPerPage int
	sortColumn         int
	sortAscending      bool
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	if maxEntitiesPerPage <= 0 {
		maxEntitiesPerPage = 100
	}
	return &EntityBrowser{
		maxEntitiesPerPage: maxEntitiesPerPage,
		sortColumn:         columnID,
		sortAscending:      true,
	}
}

func (eb *EntityBrowser) Render(pool *ecs.EntityPool) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.currentPage = 0
	}

	rows := filterEntityRows(buildEntityRows(pool), eb.filterText)
	sortEntityRows(rows, eb.sortColumn, eb.sortAscending)
	page := pageOf(rows, eb.currentPage, eb.maxEntitiesPerPage)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}

		for _, entity := range page {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(rows) > eb.maxEntitiesPerPage {
		totalPages := pageCount(len(rows), eb.maxEntitiesPerPage)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(rows)))
	}

	imgui.End()
}

// Selected returns the id of the selected entity, or 0.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selectedEntityId
}

// Select marks id as the selected entity.
func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selectedEntityId = id
}

// SetFilter replaces the search text and returns to the first page.
func (eb *EntityBrowser) SetFilter(text string) {
	eb.filterText = text
	eb.currentPage = 0
}

func componentName(registry *ecs.ComponentRegistry, t ecs.ComponentType) string {
	if registry != nil {
		if name, ok := registry.NameOf(t); ok {
			return name
		}
	}
	return t.String()
}

func buildEntityRows(pool *ecs.EntityPool) []EntityInfo {
	entities := pool.Sorted()
	rows := make([]EntityInfo, 0, len(entities))
	for _, e := range entities {
		types := e.ComponentTypes()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = componentName(pool.Registry(), t)
		}
		rows = append(rows, EntityInfo{
			ID:             e.Id(),
			Name:           e.Name(),
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}
	return rows
}

func filterEntityRows(rows []EntityInfo, filter string) []EntityInfo {
	if filter == "" {
		return rows
	}

	filtered := make([]EntityInfo, 0, len(rows))
	filterLower := strings.ToLower(filter)

	for _, entity := range rows {
		idStr := fmt.Sprintf("%d", entity.ID)
		nameStr := strings.ToLower(entity.Name)
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(nameStr, filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}
	return filtered
}

func sortEntityRows(rows []EntityInfo, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case columnName:
			return a.Name < b.Name
		case columnComponents:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case columnCount:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.ID < b.ID
		}
	})
}

func pageCount(n, perPage int) int {
	if n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

func pageOf(rows []EntityInfo, page, perPage int) []EntityInfo {
	start := page * perPage
	if start >= len(rows) {
		return nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
