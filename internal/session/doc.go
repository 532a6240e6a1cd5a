// Package session owns the layout state of one visualisation.
//
// A [Session] is built from configuration and input rows: it filters the
// rows into entities, packs them, spreads them out for the opening animation
// and starts the elastic entrance. Afterwards it is driven by an external
// animation-frame scheduler:
//
//	s, err := session.New(cfg, rows, session.Options{Logger: logger})
//	...
//	s.SelectYear(1990, now) // from a slider
//	s.DragStart("USA")      // from pointer events
//	frame := s.Frame(now)   // once per animation frame
//
// Within a frame, transitions write radii before the force simulation
// ticks, so collision resolution always sees current radii.
//
// # Thread Safety
//
// Session is NOT safe for concurrent use. Independent sessions share no
// state and may run on different goroutines.
package session
