package ecs

// Add attaches a component to an entity, replacing any existing value of the
// same kind.
func Add[T any](w *World, e Entity, k Kind[T], v *T) error {
	if !k.Valid() {
		return ErrInvalidKind
	}
	if v == nil {
		return ErrNilComponent
	}
	if !IsAlive(w, e) {
		return ErrEntityNotAlive
	}
	w.store(k.ID()).set(e.id(), v)
	return nil
}

// Get returns the entity's component of the given kind.
func Get[T any](w *World, e Entity, k Kind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v := w.lookup(k.ID()).get(e.id())
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// Has reports whether the entity carries a component of the given kind.
func Has[T any](w *World, e Entity, k Kind[T]) bool {
	return IsAlive(w, e) && w.lookup(k.ID()).has(e.id())
}

// Remove detaches the component. Returns false if the entity did not carry
// one.
func Remove[T any](w *World, e Entity, k Kind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := w.lookup(k.ID())
	if s == nil {
		return false
	}
	return s.remove(e.id())
}

// ForEach visits every live entity carrying the kind. The visit order is the
// storage's dense order, not creation order. Adding or removing components of
// the visited kind during iteration is undefined.
func ForEach[T any](w *World, k Kind[T], fn func(Entity, *T)) {
	s := w.lookup(k.ID())
	if s == nil {
		return
	}
	for i, id := range s.denseIDs {
		e := w.entities.live(id)
		if !w.entities.isAlive(e) {
			continue
		}
		if v, ok := s.denseValues[i].(*T); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities carrying both kinds.
func ForEach2[A, B any](w *World, ka Kind[A], kb Kind[B], fn func(Entity, *A, *B)) {
	sa, sb := w.lookup(ka.ID()), w.lookup(kb.ID())
	if sa == nil || sb == nil {
		return
	}
	if sb.len() < sa.len() {
		ForEach(w, kb, func(e Entity, b *B) {
			if a, ok := sa.get(e.id()).(*A); ok {
				fn(e, a, b)
			}
		})
		return
	}
	ForEach(w, ka, func(e Entity, a *A) {
		if b, ok := sb.get(e.id()).(*B); ok {
			fn(e, a, b)
		}
	})
}

// ForEach3 visits entities carrying all three kinds.
func ForEach3[A, B, C any](w *World, ka Kind[A], kb Kind[B], kc Kind[C], fn func(Entity, *A, *B, *C)) {
	sc := w.lookup(kc.ID())
	if sc == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c, ok := sc.get(e.id()).(*C); ok {
			fn(e, a, b, c)
		}
	})
}

// ForEach4 visits entities carrying all four kinds.
func ForEach4[A, B, C, D any](w *World, ka Kind[A], kb Kind[B], kc Kind[C], kd Kind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := w.lookup(kd.ID())
	if sd == nil {
		return
	}
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		if d, ok := sd.get(e.id()).(*D); ok {
			fn(e, a, b, c, d)
		}
	})
}

// Query collects every live entity carrying the kind.
func Query[T any](w *World, k Kind[T]) []Entity {
	var out []Entity
	ForEach(w, k, func(e Entity, _ *T) {
		out = append(out, e)
	})
	return out
}

// First returns the first entity carrying the kind, for singleton components
// like global state.
func First[T any](w *World, k Kind[T]) (Entity, *T, bool) {
	var (
		foundE Entity
		foundV *T
		found  bool
	)
	ForEach(w, k, func(e Entity, v *T) {
		if !found {
			foundE, foundV, found = e, v, true
		}
	})
	return foundE, foundV, found
}
