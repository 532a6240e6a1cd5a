// Package bubble provides the core types of the bubble layout engine.
//
// A bubble chart draws one circle per entity (a country) whose area is
// proportional to the entity's value in the selected year:
//
//   - [Entity]: per-entity series plus mutable layout state
//   - [Series]: one value per year of a [YearRange]
//   - [YearRange]: the inclusive range of years covered by every series
//   - [Radius]: area-proportional sizing, sqrt(value) * k
//
// # Layout State
//
// Entity positions and radii are written by the force engine, the
// transition controller and the drag handler, and read by renderers each
// frame. All of them run on one goroutine; Entity values are NOT safe for
// concurrent use.
package bubble
