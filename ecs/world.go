package ecs

// World owns entities, component storages, and the world event queue.
// Storages are created lazily per ComponentID. A World is not safe for
// concurrent mutation; run systems from a single goroutine.
type World struct {
	entities entityStore
	stores   map[ComponentID]*sparseSet
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[ComponentID]*sparseSet)}
}

// CreateEntity allocates a fresh entity handle.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity kills an entity and scrubs its components from every
// storage. Returns false if the handle was already stale.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return true
}

// IsAlive reports whether the handle still refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns a handle for every live entity.
func Entities(w *World) []Entity {
	out := make([]Entity, 0, w.entities.count())
	for i := range w.entities.gens {
		id := entityID(i + 1)
		e := makeEntity(id, w.entities.gens[i])
		if w.entities.isAlive(e) && !onFreeList(&w.entities, id) {
			out = append(out, e)
		}
	}
	return out
}

func onFreeList(s *entityStore, id entityID) bool {
	for _, f := range s.free {
		if f == id {
			return true
		}
	}
	return false
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) store(id ComponentID) *sparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}

// lookup returns the storage without creating it.
func (w *World) lookup(id ComponentID) *sparseSet {
	return w.stores[id]
}
