package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

// Rand is the randomness source threaded through the simulation.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source for deterministic runs.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// rangeFloat returns a uniform value between a and b in either order.
func rangeFloat(rng Rand, a, b float64) float64 {
	if a == b {
		return a
	}
	if a > b {
		a, b = b, a
	}
	return a + rng.Float64()*(b-a)
}

// Objects is the object table: name-keyed entries kept in insertion order.
// Iteration order is part of the simulation's observable behaviour.
type Objects struct {
	order  []string
	byName map[string]*Object
}

// NewObjects builds the runtime table from authored specs.
// Duplicate names are rejected.
func NewObjects(specs []ObjectSpec, rng Rand) (*Objects, error) {
	objs := &Objects{
		order:  make([]string, 0, len(specs)),
		byName: make(map[string]*Object, len(specs)),
	}
	for _, spec := range specs {
		if _, exists := objs.byName[spec.Name]; exists {
			return nil, fmt.Errorf("engine: duplicate object name %q", spec.Name)
		}
		objs.order = append(objs.order, spec.Name)
		objs.byName[spec.Name] = newObject(spec, rng)
	}
	return objs, nil
}

// Len returns the number of objects.
func (t *Objects) Len() int {
	return len(t.order)
}

// Names returns object names in table order.
func (t *Objects) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Get looks up an object, returning a ReferenceError if it is missing.
func (t *Objects) Get(name string) (*Object, error) {
	if obj, ok := t.byName[name]; ok {
		return obj, nil
	}
	return nil, &ReferenceError{Name: name}
}

// Lookup returns the object and whether it exists.
func (t *Objects) Lookup(name string) (*Object, bool) {
	obj, ok := t.byName[name]
	return obj, ok
}

// Each calls fn for every object in table order.
func (t *Objects) Each(fn func(*Object)) {
	for _, name := range t.order {
		fn(t.byName[name])
	}
}

// DrawOrder returns objects back to front: larger layers first, ties kept
// in table order.
func (t *Objects) DrawOrder() []*Object {
	out := make([]*Object, 0, len(t.order))
	t.Each(func(o *Object) { out = append(out, o) })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Layer > out[j].Layer
	})
	return out
}
