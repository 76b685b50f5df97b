package o2

import "sort"

// Target is an object whose fields can be animated. AnimatedField resolves a
// dotted path such as "layout.offsetMin" to a binding, or reports false when
// the path is unknown.
type Target interface {
	AnimatedField(path string) (FieldRef, bool)
}

// FieldRef is a resolved binding to one field of a target. Plain fields are
// written through a pointer; properties are written through a setter so the
// owner can react (mark layout dirty, clamp, notify).
type FieldRef struct {
	ptr any // *T
	get any // func() T
	set any // func(T)
}

// Field binds a plain field written directly through p.
func Field[T any](p *T) FieldRef {
	return FieldRef{ptr: p}
}

// Property binds a value that must be written through set.
func Property[T any](get func() T, set func(T)) FieldRef {
	return FieldRef{get: get, set: set}
}

// IsProperty reports whether writes go through a setter.
func (f FieldRef) IsProperty() bool {
	return f.set != nil
}

// IsValid reports whether the reference points at anything.
func (f FieldRef) IsValid() bool {
	return f.ptr != nil || f.set != nil
}

// ValueSink is the output of an animated value: the place a computed value
// of type T is written to.
type ValueSink[T any] interface {
	Write(v T)
	Read() T
}

type fieldSink[T any] struct {
	ptr *T
}

func (s fieldSink[T]) Write(v T) { *s.ptr = v }
func (s fieldSink[T]) Read() T   { return *s.ptr }

type setterSink[T any] struct {
	get func() T
	set func(T)
}

func (s setterSink[T]) Write(v T) { s.set(v) }

func (s setterSink[T]) Read() T {
	if s.get == nil {
		var zero T
		return zero
	}
	return s.get()
}

// bindSink selects the sink variant for ref once, at bind time. It returns
// false when ref is empty or holds a different value type.
func bindSink[T any](ref FieldRef) (ValueSink[T], bool) {
	if ref.set != nil {
		set, ok := ref.set.(func(T))
		if !ok {
			return nil, false
		}
		get, _ := ref.get.(func() T)
		return setterSink[T]{get: get, set: set}, true
	}
	if p, ok := ref.ptr.(*T); ok && p != nil {
		return fieldSink[T]{ptr: p}, true
	}
	return nil, false
}

// FieldTable is an explicit path → binding registration table. Embed or hold
// one in any type to make it a Target.
type FieldTable struct {
	fields map[string]FieldRef
}

// Register adds or replaces the binding for path.
func (t *FieldTable) Register(path string, ref FieldRef) {
	if t.fields == nil {
		t.fields = make(map[string]FieldRef)
	}
	t.fields[path] = ref
}

// AnimatedField implements Target.
func (t *FieldTable) AnimatedField(path string) (FieldRef, bool) {
	ref, ok := t.fields[path]
	return ref, ok
}

// Len returns the number of registered paths.
func (t *FieldTable) Len() int {
	return len(t.fields)
}

// Paths returns the registered paths in sorted order.
func (t *FieldTable) Paths() []string {
	out := make([]string, 0, len(t.fields))
	for p := range t.fields {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
