package store

import (
	"github.com/google/uuid"
	"github.com/voxelforge/voxelforge/vox/coord"
)

// Event describes one committed cell mutation. Events are delivered
// synchronously, after the store's invariants are re-established, so an
// observer always sees a consistent store.
type Event struct {
	Res coord.Resolution
	Pos coord.IncrementCoordinates
	Was bool
	Now bool
}

type subID = uuid.UUID

// Subscription is the registration token for a change-event observer.
// Closing it deregisters the observer; the store never owns its observers
// and a closed subscription is silently skipped on the next emission.
type Subscription struct {
	id     subID
	st     *Store
	closed bool
}

func (sub *Subscription) Close() {
	if sub == nil || sub.closed {
		return
	}
	sub.closed = true
	delete(sub.st.observers, sub.id)
}

// Subscribe registers fn to receive change events in registration order.
func (s *Store) Subscribe(fn func(Event)) *Subscription {
	id := uuid.New()
	s.observers[id] = fn
	s.order = append(s.order, id)
	return &Subscription{id: id, st: s}
}

func (s *Store) emit(ev Event) {
	live := s.order[:0]
	for _, id := range s.order {
		fn, ok := s.observers[id]
		if !ok {
			continue
		}
		live = append(live, id)
		fn(ev)
	}
	s.order = live
}
