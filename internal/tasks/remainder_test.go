package tasks

import (
	"fmt"
	"testing"
)

func TestRemainderSet(t *testing.T) {
	t.Run("Paginates 120 Entries As 50 50 20", func(t *testing.T) {
		set := NewRemainderSet()
		for i := 0; i < 120; i++ {
			set.Add(fmt.Sprintf("in-%03d", i), fmt.Sprintf("out-%03d", i))
		}

		if set.PageCount() != 3 {
			t.Fatalf("expected 3 pages, got %d", set.PageCount())
		}

		seen := make(map[string]bool)
		sizes := []int{}
		for set.HasNext() {
			ids, lookup := set.NextPage()
			sizes = append(sizes, len(ids))
			if len(lookup) != len(ids) {
				t.Errorf("lookup size %d does not match page size %d", len(lookup), len(ids))
			}
			for _, id := range ids {
				if seen[id] {
					t.Errorf("id %s requested twice", id)
				}
				seen[id] = true
			}
		}

		want := []int{50, 50, 20}
		if len(sizes) != len(want) {
			t.Fatalf("expected %v page sizes, got %v", want, sizes)
		}
		for i := range want {
			if sizes[i] != want[i] {
				t.Errorf("page %d: expected %d entries, got %d", i, want[i], sizes[i])
			}
		}
		if len(seen) != 120 {
			t.Errorf("expected every entry requested exactly once, got %d", len(seen))
		}
	})

	t.Run("Pages Are In Insertion Order", func(t *testing.T) {
		set := NewRemainderSet()
		set.Add("in-b", "out-b")
		set.Add("in-a", "out-a")

		ids, _ := set.NextPage()
		if ids[0] != "out-b" || ids[1] != "out-a" {
			t.Errorf("expected insertion order, got %v", ids)
		}
	})

	t.Run("Remove Shrinks The Set", func(t *testing.T) {
		set := NewRemainderSet()
		set.Add("in-1", "out-1")
		set.Add("in-2", "out-2")

		set.Remove("in-1")
		set.Remove("in-1") // second remove is a no-op

		if set.Len() != 1 {
			t.Fatalf("expected 1 entry, got %d", set.Len())
		}
		ids, _ := set.NextPage()
		if len(ids) != 1 || ids[0] != "out-2" {
			t.Errorf("unexpected page after removal: %v", ids)
		}
	})

	t.Run("Cursor Survives Removal", func(t *testing.T) {
		set := NewRemainderSet()
		for i := 0; i < 60; i++ {
			set.Add(fmt.Sprintf("in-%02d", i), fmt.Sprintf("out-%02d", i))
		}

		set.NextPage()
		set.Remove("in-55")

		// one page requested, nine unrequested entries remain but the
		// cursor does not rewind
		if !set.HasNext() {
			t.Fatal("expected a second page")
		}
		ids, _ := set.NextPage()
		if len(ids) != 9 {
			t.Errorf("expected 9 entries on the final page, got %d", len(ids))
		}
		if set.HasNext() {
			t.Error("expected no further pages")
		}
	})
}
