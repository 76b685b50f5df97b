// Package ecs provides ECS adapters for o2's drag handle events.
//
// The primary adapter is [NewDonburiStore], which bridges handle events
// (press, release, change completed, selection) into a [Donburi] world as
// typed events. Subscribe to [HandleEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [RecordChanges] additionally keeps every completed change as a
// [ChangeAction] entity, which is enough to build undo on.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
