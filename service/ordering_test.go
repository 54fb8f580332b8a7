package service

import (
	"reflect"
	"testing"
)

func scope(orders ...int) []OrderedItem {
	items := make([]OrderedItem, len(orders))
	for i, o := range orders {
		items[i] = OrderedItem{ID: string(rune('a' + i)), SortOrder: o}
	}
	return items
}

func apply(items []OrderedItem, updates []OrderUpdate) []OrderedItem {
	next := make([]OrderedItem, len(items))
	copy(next, items)
	for _, u := range updates {
		for i := range next {
			if next[i].ID == u.ID {
				next[i].SortOrder = u.SortOrder
			}
		}
	}
	return next
}

func assertDense(t *testing.T, items []OrderedItem) {
	t.Helper()
	seen := make(map[int]bool)
	for _, it := range items {
		if it.SortOrder < 0 || it.SortOrder >= len(items) {
			t.Fatalf("sortOrder %d out of range for %d items", it.SortOrder, len(items))
		}
		if seen[it.SortOrder] {
			t.Fatalf("duplicate sortOrder %d", it.SortOrder)
		}
		seen[it.SortOrder] = true
	}
}

func TestNextSortOrder(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderedItem
		want  int
	}{
		{"empty scope starts at zero", nil, 0},
		{"dense scope appends after max", scope(0, 1, 2), 3},
		{"gapped scope still appends after max", scope(0, 4, 7), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSortOrder(tt.items); got != tt.want {
				t.Errorf("NextSortOrder = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRestoreAfterActiveRenumberStaysDense(t *testing.T) {
	// a=0, b=1, c=2; b goes to Trash keeping its dormant sortOrder, the
	// active pair is moved and renumbered, then b comes back. Re-appending
	// at NextSortOrder of the active scope must not collide with anything.
	active := []OrderedItem{{ID: "a", SortOrder: 0}, {ID: "c", SortOrder: 2}}
	dormant := OrderedItem{ID: "b", SortOrder: 1}

	updates, err := PlanSwapMove(active, "c", MoveUp)
	if err != nil {
		t.Fatal(err)
	}
	active = apply(active, updates)
	assertDense(t, active)

	dormant.SortOrder = NextSortOrder(active)
	restored := append(active, dormant)
	assertDense(t, restored)

	byID := map[string]int{}
	for _, it := range restored {
		byID[it.ID] = it.SortOrder
	}
	if byID["c"] != 0 || byID["a"] != 1 || byID["b"] != 2 {
		t.Errorf("after restore: %v", byID)
	}
}

func TestPlanSwapMove(t *testing.T) {
	t.Run("swaps with the upper neighbor", func(t *testing.T) {
		items := scope(0, 1, 2) // a, b, c
		updates, err := PlanSwapMove(items, "b", MoveUp)
		if err != nil {
			t.Fatal(err)
		}
		after := apply(items, updates)
		assertDense(t, after)
		byID := map[string]int{}
		for _, it := range after {
			byID[it.ID] = it.SortOrder
		}
		if byID["b"] != 0 || byID["a"] != 1 || byID["c"] != 2 {
			t.Errorf("after move up: %v", byID)
		}
	})

	t.Run("boundary moves are no-ops", func(t *testing.T) {
		items := scope(0, 1, 2)
		up, err := PlanSwapMove(items, "a", MoveUp)
		if err != nil || len(up) != 0 {
			t.Errorf("top move up = (%v, %v), want empty no-op", up, err)
		}
		down, err := PlanSwapMove(items, "c", MoveDown)
		if err != nil || len(down) != 0 {
			t.Errorf("bottom move down = (%v, %v), want empty no-op", down, err)
		}
	})

	t.Run("gapped scope densifies after a move", func(t *testing.T) {
		items := scope(0, 5, 9)
		updates, err := PlanSwapMove(items, "c", MoveUp)
		if err != nil {
			t.Fatal(err)
		}
		after := apply(items, updates)
		assertDense(t, after)
	})

	t.Run("foreign id errors", func(t *testing.T) {
		if _, err := PlanSwapMove(scope(0, 1), "zzz", MoveDown); err == nil {
			t.Error("expected error for foreign id")
		}
	})

	t.Run("any swap sequence keeps the set dense", func(t *testing.T) {
		items := scope(0, 1, 2, 3, 4)
		moves := []struct {
			id  string
			dir MoveDirection
		}{
			{"c", MoveUp}, {"a", MoveDown}, {"e", MoveUp},
			{"e", MoveUp}, {"b", MoveDown}, {"d", MoveUp},
			{"a", MoveUp}, {"c", MoveDown},
		}
		for _, m := range moves {
			updates, err := PlanSwapMove(items, m.id, m.dir)
			if err != nil {
				t.Fatal(err)
			}
			items = apply(items, updates)
			assertDense(t, items)
		}
	})
}

func TestPlanReorder(t *testing.T) {
	items := scope(0, 1, 2) // a, b, c

	t.Run("full permutation assigns index order", func(t *testing.T) {
		updates, err := PlanReorder(items, []string{"c", "a", "b"})
		if err != nil {
			t.Fatal(err)
		}
		want := []OrderUpdate{{ID: "c", SortOrder: 0}, {ID: "a", SortOrder: 1}, {ID: "b", SortOrder: 2}}
		if !reflect.DeepEqual(updates, want) {
			t.Errorf("updates = %v, want %v", updates, want)
		}
	})

	t.Run("incomplete batch rejected", func(t *testing.T) {
		if _, err := PlanReorder(items, []string{"a", "b"}); err == nil {
			t.Error("expected error for incomplete batch")
		}
	})

	t.Run("foreign id rejected", func(t *testing.T) {
		if _, err := PlanReorder(items, []string{"a", "b", "x"}); err == nil {
			t.Error("expected error for foreign id")
		}
	})

	t.Run("duplicated id rejected", func(t *testing.T) {
		if _, err := PlanReorder(items, []string{"a", "b", "b"}); err == nil {
			t.Error("expected error for duplicated id")
		}
	})
}
