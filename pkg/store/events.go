package store

type EventKind int

const (
	Loaded EventKind = iota
	TaskAdded
	TaskUpdated
	TaskDeleted
	AwardUnlocked
)

func (k EventKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case TaskAdded:
		return "task_added"
	case TaskUpdated:
		return "task_updated"
	case TaskDeleted:
		return "task_deleted"
	case AwardUnlocked:
		return "award_unlocked"
	}
	return "unknown"
}

// Event describes a completed mutation. TaskID or AwardID is set depending on
// Kind.
type Event struct {
	Kind    EventKind
	TaskID  string
	AwardID string
}

// Subscribe registers fn to run after every mutation, outside the store lock.
// fn may call back into the store. The returned func removes the listener.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
