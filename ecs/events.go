package ecs

// Event carries a world notification between systems within one tick.
type Event struct {
	Type string
	Data any
}

// EventQueue is a FIFO of world events. Events pushed during a tick are
// visible to later systems in the same tick and are flushed when the
// scheduler finishes the pass.
type EventQueue struct {
	items []Event
}

// Push appends an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all queued events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns the queued events without clearing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
