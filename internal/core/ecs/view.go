package ecs

// View2 iterates entities present in both the A and B stores. It owns no
// state beyond its cursor and never mutates the stores; iteration is driven
// by the smaller member store so cost is O(min(|A|,|B|)).
//
// Structural changes must not happen mid-iteration; the command buffer and
// commit-point discipline guarantee that for system code.
type View2[A, B any] struct {
	a     *Store[A]
	b     *Store[B]
	cur   Entity
	index int
	aLead bool
}

// NewView2 builds a view over the A and B stores of w.
func NewView2[A, B any](w *World) *View2[A, B] {
	v := &View2[A, B]{a: StoreFor[A](w), b: StoreFor[B](w)}
	v.Reset()
	return v
}

// Reset rewinds the cursor and re-picks the driving store.
func (v *View2[A, B]) Reset() {
	v.index = -1
	v.cur = Nil
	v.aLead = v.a.Len() <= v.b.Len()
}

// Next advances to the next entity in the intersection. Returns false when
// exhausted.
func (v *View2[A, B]) Next() bool {
	if v.aLead {
		for v.index+1 < v.a.Len() {
			v.index++
			e := v.a.entities[v.index]
			if _, ok := v.b.index(e); ok {
				v.cur = e
				return true
			}
		}
		return false
	}
	for v.index+1 < v.b.Len() {
		v.index++
		e := v.b.entities[v.index]
		if _, ok := v.a.index(e); ok {
			v.cur = e
			return true
		}
	}
	return false
}

// Entity returns the current entity.
func (v *View2[A, B]) Entity() Entity {
	return v.cur
}

// Get returns pointers to the current entity's A and B components. It should
// only be called after Next has returned true; without a positioned cursor it
// returns nil, nil.
func (v *View2[A, B]) Get() (*A, *B) {
	ai, ok := v.a.index(v.cur)
	if !ok {
		return nil, nil
	}
	bi, ok := v.b.index(v.cur)
	if !ok {
		return nil, nil
	}
	return &v.a.dense[ai], &v.b.dense[bi]
}

// View3 is the three-store intersection counterpart of View2.
type View3[A, B, C any] struct {
	a     *Store[A]
	b     *Store[B]
	c     *Store[C]
	cur   Entity
	index int
}

// NewView3 builds a view over the A, B and C stores of w.
func NewView3[A, B, C any](w *World) *View3[A, B, C] {
	v := &View3[A, B, C]{a: StoreFor[A](w), b: StoreFor[B](w), c: StoreFor[C](w)}
	v.Reset()
	return v
}

// Reset rewinds the cursor.
func (v *View3[A, B, C]) Reset() {
	v.index = -1
	v.cur = Nil
}

// Next advances to the next entity present in all three stores.
func (v *View3[A, B, C]) Next() bool {
	lead := v.a
	for v.index+1 < lead.Len() {
		v.index++
		e := lead.entities[v.index]
		if _, ok := v.b.index(e); !ok {
			continue
		}
		if _, ok := v.c.index(e); !ok {
			continue
		}
		v.cur = e
		return true
	}
	return false
}

// Entity returns the current entity.
func (v *View3[A, B, C]) Entity() Entity {
	return v.cur
}

// Get returns pointers to the current entity's three components. It should
// only be called after Next has returned true; without a positioned cursor it
// returns nils.
func (v *View3[A, B, C]) Get() (*A, *B, *C) {
	ai, aok := v.a.index(v.cur)
	bi, bok := v.b.index(v.cur)
	ci, cok := v.c.index(v.cur)
	if !aok || !bok || !cok {
		return nil, nil, nil
	}
	return &v.a.dense[ai], &v.b.dense[bi], &v.c.dense[ci]
}
