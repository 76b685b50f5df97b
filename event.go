package o2

// remover is implemented by every registry a CallbackHandle can point into.
type remover interface {
	remove(id uint32)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg remover
}

// Remove unregisters this callback so it no longer fires.
// Removing a zero handle, or removing twice, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}

type eventHandler[T any] struct {
	id uint32
	fn func(T)
}

// Event is an ordered list of subscribers receiving a payload of type T.
// The zero value is ready to use.
type Event[T any] struct {
	handlers []eventHandler[T]
	nextID   uint32
}

// Subscribe registers fn and returns a handle that can remove it.
func (e *Event[T]) Subscribe(fn func(T)) CallbackHandle {
	e.nextID++
	e.handlers = append(e.handlers, eventHandler[T]{id: e.nextID, fn: fn})
	return CallbackHandle{id: e.nextID, reg: e}
}

// Emit calls every subscriber in registration order. Subscribers added
// during emission are not called until the next Emit.
func (e *Event[T]) Emit(v T) {
	handlers := e.handlers
	for _, h := range handlers {
		h.fn(v)
	}
}

// Len returns the number of subscribers.
func (e *Event[T]) Len() int {
	return len(e.handlers)
}

// Clear removes every subscriber.
func (e *Event[T]) Clear() {
	e.handlers = nil
}

// remove deletes the handler with the given id.
// Uses a fresh backing array so an Emit in progress keeps iterating its own
// snapshot.
func (e *Event[T]) remove(id uint32) {
	for i := range e.handlers {
		if e.handlers[i].id == id {
			next := make([]eventHandler[T], 0, len(e.handlers)-1)
			next = append(next, e.handlers[:i]...)
			next = append(next, e.handlers[i+1:]...)
			e.handlers = next
			return
		}
	}
}
