package ecs

import (
	"github.com/o2engine/o2"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// HandleEventType is the Donburi event type for o2 handle events.
var HandleEventType = events.NewEventType[o2.HandleEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Handle
// events are published to HandleEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) o2.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event o2.HandleEvent) {
	HandleEventType.Publish(s.world, event)
}
