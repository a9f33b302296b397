package tasks

// PageSize is the catalog's page limit for bulk track lookups and
// playlist item submissions.
const PageSize = 50

// RemainderSet tracks input ids whose persisted mapping points at a
// catalog track not yet present in the match cache, pending bulk
// lookup. It is rebuilt wholesale on each playlist load; the page
// cursor counts how many pages have already been requested and only
// resets with the rebuild.
//
// Entries keep insertion order so pages are deterministic and strictly
// increasing, never overlapping.
type RemainderSet struct {
	order  []string
	ids    map[string]string // input id → mapped catalog id
	cursor int
}

// NewRemainderSet creates an empty set.
func NewRemainderSet() *RemainderSet {
	return &RemainderSet{ids: make(map[string]string)}
}

// Add records that inputID's mapped catalog track still needs fetching.
func (r *RemainderSet) Add(inputID, outputID string) {
	if _, ok := r.ids[inputID]; !ok {
		r.order = append(r.order, inputID)
	}
	r.ids[inputID] = outputID
}

// Get returns the mapped catalog id recorded for inputID.
func (r *RemainderSet) Get(inputID string) (string, bool) {
	outputID, ok := r.ids[inputID]
	return outputID, ok
}

// Remove drops the entry for inputID once its catalog track has been
// observed.
func (r *RemainderSet) Remove(inputID string) {
	if _, ok := r.ids[inputID]; !ok {
		return
	}
	delete(r.ids, inputID)
	for i, id := range r.order {
		if id == inputID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of pending entries.
func (r *RemainderSet) Len() int {
	return len(r.order)
}

// PageCount returns how many pages the current set spans.
func (r *RemainderSet) PageCount() int {
	return (len(r.order) + PageSize - 1) / PageSize
}

// HasNext reports whether an unrequested page remains.
func (r *RemainderSet) HasNext() bool {
	return r.cursor < r.PageCount()
}

// NextPage returns the catalog ids of the next page and a candidate-id
// to input-id lookup for routing the response, then advances the
// cursor.
func (r *RemainderSet) NextPage() (ids []string, lookup map[string]string) {
	start := r.cursor * PageSize
	end := min(start+PageSize, len(r.order))
	r.cursor++

	lookup = make(map[string]string, end-start)
	for _, inputID := range r.order[start:end] {
		outputID := r.ids[inputID]
		ids = append(ids, outputID)
		lookup[outputID] = inputID
	}
	return ids, lookup
}
