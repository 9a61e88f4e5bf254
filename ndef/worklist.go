package ndef

// worklist keeps node ids whose instances exist but whose elements still have to be
// populated. An id is handed out once; ids already done are never queued again.
type worklist struct {
	needs  []int
	queued map[int]struct{}
	done   map[int]struct{}
}

func (w *worklist) Needs(id int) {
	if w.queued == nil {
		w.queued = make(map[int]struct{})
	}

	if _, exists := w.done[id]; exists {
		return
	}

	if _, exists := w.queued[id]; exists {
		return
	}

	w.queued[id] = struct{}{}
	w.needs = append(w.needs, id)
}

func (w *worklist) NextNeeds() (id int, ok bool) {
	if len(w.needs) == 0 {
		return 0, false
	}

	id, w.needs = w.needs[0], w.needs[1:]
	delete(w.queued, id)

	return id, true
}

func (w *worklist) Done(id int) {
	if w.done == nil {
		w.done = make(map[int]struct{})
	}

	delete(w.queued, id)
	w.done[id] = struct{}{}
}

func (w *worklist) Len() int { return len(w.needs) }
