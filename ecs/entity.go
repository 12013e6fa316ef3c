package ecs

import "strconv"

// Entity is an opaque handle: the low 32 bits hold the slot id, the high 32
// bits hold the slot's generation at the time the entity was created. A
// handle goes stale when its slot is recycled.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// entityStore hands out slot ids and tracks their generations. Destroyed
// slots go on a free list and come back with a bumped generation.
type entityStore struct {
	gens []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		id = entityID(len(s.gens))
	}
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.gens[e.id()-1]++
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.gens[id-1] == e.generation()
}

func (s *entityStore) count() int {
	return len(s.gens) - len(s.free)
}

// live rebuilds the current handle for a slot id.
func (s *entityStore) live(id entityID) Entity {
	if id == 0 || int(id) > len(s.gens) {
		return 0
	}
	return makeEntity(id, s.gens[id-1])
}
