package service

import (
	"fmt"
	"sort"
)

// MoveDirection is a single-step move direction.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// OrderedItem is the id plus current sortOrder of one row in a sibling
// scope (requirements of a project, packages of a service, all projects).
type OrderedItem struct {
	ID        string
	SortOrder int
}

// OrderUpdate is one sortOrder assignment to apply.
type OrderUpdate struct {
	ID        string
	SortOrder int
}

// NextSortOrder returns the insertion position for a new row: one past the
// current maximum, or 0 for an empty scope. Never collides with or skips
// past existing values.
func NextSortOrder(items []OrderedItem) int {
	next := 0
	for _, it := range items {
		if it.SortOrder >= next {
			next = it.SortOrder + 1
		}
	}
	return next
}

// renumber assigns a dense zero-based sequence following the order of the
// given slice. Shared primitive behind swap-move and explicit reorder.
func renumber(items []OrderedItem) []OrderUpdate {
	updates := make([]OrderUpdate, 0, len(items))
	for i, it := range items {
		updates = append(updates, OrderUpdate{ID: it.ID, SortOrder: i})
	}
	return updates
}

// SortedByOrder returns a copy sorted by current sortOrder. Ties break by id
// so the outcome is deterministic even on degenerate stored data.
func SortedByOrder(items []OrderedItem) []OrderedItem {
	sorted := make([]OrderedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// PlanSwapMove exchanges a row with its immediate neighbor in the given
// direction. A move at the boundary is a no-op, not an error: it returns an
// empty plan. The plan renumbers the whole scope, so the result is dense
// even when the stored sequence had gaps. The caller applies the plan inside
// one transaction after re-reading current orders.
func PlanSwapMove(items []OrderedItem, id string, dir MoveDirection) ([]OrderUpdate, error) {
	sorted := SortedByOrder(items)

	idx := -1
	for i, it := range sorted {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("item %s is not part of this scope", id)
	}

	switch dir {
	case MoveUp:
		if idx == 0 {
			return nil, nil
		}
		sorted[idx-1], sorted[idx] = sorted[idx], sorted[idx-1]
	case MoveDown:
		if idx == len(sorted)-1 {
			return nil, nil
		}
		sorted[idx], sorted[idx+1] = sorted[idx+1], sorted[idx]
	default:
		return nil, fmt.Errorf("unknown move direction %q", dir)
	}

	return renumber(sorted), nil
}

// PlanReorder assigns sortOrder = index for a full permutation of the
// scope's ids. An incomplete or foreign id set rejects the whole batch.
func PlanReorder(items []OrderedItem, orderedIDs []string) ([]OrderUpdate, error) {
	if len(orderedIDs) != len(items) {
		return nil, fmt.Errorf("reorder needs all %d items of the scope, got %d", len(items), len(orderedIDs))
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	seen := make(map[string]bool, len(orderedIDs))
	ordered := make([]OrderedItem, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return nil, fmt.Errorf("item %s is not part of this scope", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("item %s appears twice in the reorder batch", id)
		}
		seen[id] = true
		ordered = append(ordered, OrderedItem{ID: id})
	}

	return renumber(ordered), nil
}
