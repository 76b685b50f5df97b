// Package o2 is the UI core of the o2 engine for [Ebitengine]: anchor-based
// widget layout, keyframe animation with weighted blending, and the drag
// handles editor tools are built from.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	cfg, err := o2.LoadConfig("o2.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene := o2.NewScene(float64(cfg.Width), float64(cfg.Height))
//	// ... add widgets and handles ...
//	if err := o2.Run(scene, cfg, nil); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly, or wrap [Game].
//
// # Coordinates
//
// UI space has its origin at the bottom-left of the screen and Y grows
// upward. [Rect] is {Left, Bottom, Right, Top}. Cursor positions delivered
// to handles are in the same space.
//
// # Layout
//
// Every [Widget] owns a [WidgetLayout]. Anchors are fractions of the
// parent's children rectangle, offsets are pixels added to the anchored
// points:
//
//	panel := o2.NewWidgetWithLayout("panel", o2.BothStretch(10, 10, 10, 10))
//	scene.Root().AddChild(panel)
//
//	button := o2.NewWidgetWithLayout("ok", o2.Based(o2.BaseRightBottom, o2.Vec2{X: 80, Y: 24}, o2.Vec2{X: -8, Y: 8}))
//	panel.AddChild(button)
//
// Layouts resolve lazily, top-down, on [Scene.Update]. Position, size and
// rectangle setters rewrite anchors and offsets. [VerticalStack] and
// [HorizontalStack] arrange children by weight.
//
// # Animation
//
// An [Animation] is a set of [AnimatedValue]s bound to dotted field paths of
// a [Target]. An [Animatable] plays several animations at once as
// [AnimationState]s and writes the weighted average of every value that
// animates the same field:
//
//	anim := o2.NewAnimation()
//	fade := o2.NewFloatValue()
//	fade.AddKey(0, 0, o2.EaseLinear)
//	fade.AddKey(0.5, 1, o2.EaseFunc(ease.OutQuad))
//	anim.AddValue("transparency", fade)
//
//	panel.Animatable().AddNewState("show", anim, o2.AnimationMask{}, 1)
//	panel.Animatable().Play("show")
//
// # Drag handles
//
// A [DragHandle] is a draggable point; [SelectableDragHandle] adds
// click-to-select and [SelectableDragHandlesGroup] moves whole selections.
// Register handles with [Scene.AddHandle]; they receive cursor events from
// the scene's [Input]. Set a [EventStore] (for example the donburi bridge in
// o2/ecs) to record completed changes as undoable actions.
//
// [Ebitengine]: https://ebitengine.org
package o2
