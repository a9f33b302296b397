package tasks

import "testing"

func TestCallSlot(t *testing.T) {
	t.Run("Single Holder", func(t *testing.T) {
		var slot CallSlot

		if !slot.TryAcquire() {
			t.Fatal("expected free slot to be acquirable")
		}
		if slot.TryAcquire() {
			t.Error("expected held slot to refuse a second acquire")
		}
		if !slot.Held() {
			t.Error("expected slot to report held")
		}

		slot.Release()
		if slot.Held() {
			t.Error("expected slot to be free after release")
		}
		if !slot.TryAcquire() {
			t.Error("expected released slot to be acquirable again")
		}
	})

	t.Run("Releasing A Free Slot Panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()

		var slot CallSlot
		slot.Release()
	})
}
