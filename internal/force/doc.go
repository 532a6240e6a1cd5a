// Package force implements the iterative force relaxation of the bubble
// layout.
//
// A [Simulation] owns an activity level, alpha, that decays toward a target
// every tick. Each tick every registered [Force] adds to entity velocities,
// then velocities are damped and integrated into positions:
//
//   - [ManyBody]: pairwise charge-like repulsion
//   - [Collide]: overlap resolution from each entity's live radius
//   - [X], [Y]: pull toward the layout center
//
// Forces are applied in registration order. Entities with a pin are held
// at the pin: forces do not move them and they act as immovable obstacles
// for collisions.
//
// # Example
//
//	sim := force.New(entities, 1).
//	    Add("charge", force.NewManyBody()).
//	    Add("collide", force.NewCollide(1)).
//	    Add("x", force.NewX(cx, 0.2)).
//	    Add("y", force.NewY(cy, 0.2))
//	for sim.Step() {
//	}
package force
