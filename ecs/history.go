package ecs

import (
	"cmp"
	"slices"

	"github.com/o2engine/o2"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// ChangeAction is one completed handle move.
type ChangeAction struct {
	Seq      int
	HandleID int
	Before   o2.Vec2
	After    o2.Vec2
}

// ChangeActionComponent stores a ChangeAction on an entity.
var ChangeActionComponent = donburi.NewComponentType[ChangeAction]()

var changeQuery = donburi.NewQuery(filter.Contains(ChangeActionComponent))

// RecordChanges subscribes to HandleEventType and creates a ChangeAction
// entity for every HandleChangeCompleted event processed in world.
func RecordChanges(world donburi.World) {
	seq := 0
	HandleEventType.Subscribe(world, func(w donburi.World, e o2.HandleEvent) {
		if e.Type != o2.HandleChangeCompleted {
			return
		}
		seq++
		entry := w.Entry(w.Create(ChangeActionComponent))
		ChangeActionComponent.SetValue(entry, ChangeAction{
			Seq:      seq,
			HandleID: e.HandleID,
			Before:   e.Before,
			After:    e.After,
		})
	})
}

// Changes returns every recorded change, oldest first.
func Changes(world donburi.World) []ChangeAction {
	var out []ChangeAction
	changeQuery.Each(world, func(entry *donburi.Entry) {
		out = append(out, *ChangeActionComponent.Get(entry))
	})
	slices.SortFunc(out, func(a, b ChangeAction) int { return cmp.Compare(a.Seq, b.Seq) })
	return out
}

// LastChange returns the most recent change, if any.
func LastChange(world donburi.World) (ChangeAction, bool) {
	var (
		last  ChangeAction
		found bool
	)
	changeQuery.Each(world, func(entry *donburi.Entry) {
		c := ChangeActionComponent.Get(entry)
		if !found || c.Seq > last.Seq {
			last, found = *c, true
		}
	})
	return last, found
}

// PopChange removes the most recent change from world and returns it, so
// the caller can move the handle back to Before.
func PopChange(world donburi.World) (ChangeAction, bool) {
	var (
		last   ChangeAction
		entity donburi.Entity
		found  bool
	)
	changeQuery.Each(world, func(entry *donburi.Entry) {
		c := ChangeActionComponent.Get(entry)
		if !found || c.Seq > last.Seq {
			last, entity, found = *c, entry.Entity(), true
		}
	})
	if found {
		world.Remove(entity)
	}
	return last, found
}
