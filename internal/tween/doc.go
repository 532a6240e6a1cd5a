// Package tween animates entity radii between steady-state values.
//
// Each entity has a [Track] that is either [Idle] or [Transitioning]. Starting
// a transition always begins at the entity's current radius, which may
// itself be mid-transition; there is no cancel call, a new [Controller.Start]
// simply replaces the track. [Controller.Step] is called once per frame,
// before the force simulation ticks, so collisions see this frame's radii.
package tween
