package tasks

// CallSlot is an explicit capacity-1 semaphore guarding the catalog
// request budget: at most one call outstanding at any moment, shared
// across searches, bulk lookups, and playlist operations.
//
// The slot is only touched from the update loop, so a plain flag
// suffices; making it a first-class type keeps the invariant testable.
type CallSlot struct {
	held bool
}

// TryAcquire claims the slot, reporting whether it was free.
func (s *CallSlot) TryAcquire() bool {
	if s.held {
		return false
	}
	s.held = true
	return true
}

// Release frees the slot. Releasing a free slot indicates a scheduling
// logic error and panics.
func (s *CallSlot) Release() {
	if !s.held {
		panic("tasks: released a free call slot")
	}
	s.held = false
}

// Held reports whether a call is outstanding.
func (s *CallSlot) Held() bool {
	return s.held
}
