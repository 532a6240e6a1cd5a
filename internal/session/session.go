package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/force"
	"github.com/san-kum/forcebubble/internal/interact"
	"github.com/san-kum/forcebubble/internal/pack"
	"github.com/san-kum/forcebubble/internal/resource"
	"github.com/san-kum/forcebubble/internal/store"
	"github.com/san-kum/forcebubble/internal/tween"
)

// ReheatAlpha is the activity level a year change restarts the
// simulation with.
const ReheatAlpha = 0.2

// OverlapTolerance is how deep two padded circles may still overlap when
// the layout is considered at rest.
const OverlapTolerance = 0.01

type Options struct {
	// Constrained is the host's constrained-device signal. It is combined
	// with Config.Constrained.
	Constrained bool
	Logger      *log.Logger
}

type Session struct {
	cfg       config.Config
	yr        bubble.YearRange
	entities  []*bubble.Entity
	byID      map[string]*bubble.Entity
	sim       *force.Simulation
	collide   *force.Collide
	tweens    *tween.Controller
	drag      *interact.Handler
	resources resource.Table
	year      int
	frame     int
	now       time.Duration
	observers []bubble.Observer
	metrics   []bubble.Metric
	log       *log.Logger
}

// New validates cfg, builds the entity store from rows and starts the
// opening animation at time zero.
func New(cfg *config.Config, rows []store.Row, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	yr, _ := cfg.YearRange()
	threshold := cfg.Threshold

	entities := store.Build(rows, yr, store.Options{
		Constrained: cfg.Constrained || opts.Constrained,
		Threshold:   &threshold,
	})
	if len(entities) == 0 {
		return nil, fmt.Errorf("start: %d rows: %w", len(rows), bubble.ErrNoEntities)
	}
	logger.Debug("entity store built", "rows", len(rows), "entities", len(entities), "constrained", cfg.Constrained || opts.Constrained)

	s := &Session{
		cfg:       *cfg,
		yr:        yr,
		entities:  entities,
		byID:      make(map[string]*bubble.Entity, len(entities)),
		resources: resource.Default().With(cfg.Resources),
		year:      yr.Start,
		log:       logger,
	}
	for _, e := range entities {
		s.byID[e.ID] = e
	}

	s.place()

	cx, cy := cfg.Width/2, cfg.Height/2
	collide := force.NewCollide(cfg.Padding)
	collide.Iterations = cfg.Iterations
	s.sim = force.New(entities, cfg.Seed)
	s.sim.Add("charge", force.NewManyBody()).
		Add("collide", collide).
		Add("x", force.NewX(cx, cfg.Strength)).
		Add("y", force.NewY(cy, cfg.Strength))
	s.collide = collide
	s.drag = interact.NewHandler(s.sim)

	s.tweens = tween.NewController(entities, cfg.Duration())
	s.tweens.StartAll(0, tween.ElasticOut, s.radiusAt(yr.Start))

	logger.Info("session started", "entities", len(entities), "years", fmt.Sprintf("%d-%d", yr.Start, yr.End))
	return s, nil
}

// place packs entities by their last-year value and spreads the packing
// out from the center.
func (s *Session) place() {
	weights := make([]float64, len(s.entities))
	for i, e := range s.entities {
		weights[i] = e.Series.Last()
	}
	circles := pack.Layout(weights, s.cfg.Width, s.cfg.Height, s.cfg.PackPadding)
	pack.Magnify(circles, s.cfg.Width/2, s.cfg.Height/2, s.cfg.Magnify)
	for i, e := range s.entities {
		e.X, e.Y = circles[i].X, circles[i].Y
		e.VX, e.VY = 0, 0
		e.Radius = 0
	}
}

func (s *Session) radiusAt(year int) func(*bubble.Entity) float64 {
	return func(e *bubble.Entity) float64 {
		v, _ := e.Series.At(s.yr, year)
		return bubble.Radius(v, s.cfg.Scale)
	}
}

func (s *Session) AddObserver(o bubble.Observer) { s.observers = append(s.observers, o) }
func (s *Session) AddMetric(m bubble.Metric)     { s.metrics = append(s.metrics, m) }

// Metrics returns the current value of every registered metric.
func (s *Session) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// SelectYear starts transitions toward the radii of year. Years outside
// the configured range are ignored and false is returned.
func (s *Session) SelectYear(year int, now time.Duration) bool {
	if !s.yr.Contains(year) {
		s.log.Debug("year out of range", "year", year, "start", s.yr.Start, "end", s.yr.End)
		return false
	}

	s.sim.SetAlpha(ReheatAlpha)
	s.sim.Restart()
	s.year = year
	s.tweens.StartAll(now, tween.PolyOut, s.radiusAt(year))
	if s.drag.Active() == 0 {
		s.sim.SetAlphaTarget(0)
	}
	s.log.Debug("year selected", "year", year)
	return true
}

// Frame advances the layout to now: transitions first, then one tick of
// the simulation when it is active, radii are still changing or padded
// circles still overlap. Once alpha has cooled the extra ticks carry
// almost no charge or centering, so they only resolve collisions.
func (s *Session) Frame(now time.Duration) bubble.Frame {
	s.now = now
	moving := s.tweens.Step(now)
	if !s.sim.Step() && (moving > 0 || !s.resolved()) {
		s.sim.Tick()
	}
	s.frame++

	f := s.Snapshot()
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

// Snapshot describes the layout as of the last frame.
func (s *Session) Snapshot() bubble.Frame {
	return bubble.Frame{
		Index:    s.frame,
		Time:     s.now,
		Year:     s.year,
		Alpha:    s.sim.Alpha(),
		Settled:  s.Settled(),
		Entities: s.entities,
	}
}

// Run drives frames every step of virtual time until the layout settles
// or maxFrames frames have run. It returns the number of frames run.
func (s *Session) Run(ctx context.Context, step time.Duration, maxFrames int) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("step must be positive, got %v", step)
	}
	for i := 0; i < maxFrames; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}

		s.Frame(s.now + step)

		for _, e := range s.entities {
			if !e.Valid() {
				return i + 1, &bubble.SessionError{Frame: s.frame, Year: s.year, Wrapped: fmt.Errorf("%s: %w", e.ID, bubble.ErrInvalidState)}
			}
		}
		if s.Settled() {
			return i + 1, nil
		}
	}
	return maxFrames, nil
}

// Settled reports whether the layout is at rest: the simulation has
// cooled, no radius is transitioning, nothing is being dragged and no
// padded circles overlap beyond OverlapTolerance.
func (s *Session) Settled() bool {
	return !s.sim.Active() && s.tweens.Active() == 0 && s.drag.Active() == 0 && s.resolved()
}

func (s *Session) resolved() bool {
	return s.collide.MaxOverlap() <= OverlapTolerance
}

func (s *Session) DragStart(id string) error {
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("drag %q: %w", id, bubble.ErrUnknownEntity)
	}
	s.drag.Start(e)
	s.log.Debug("drag start", "id", id, "x", e.X, "y", e.Y)
	return nil
}

func (s *Session) DragMove(id string, x, y float64) error {
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("drag %q: %w", id, bubble.ErrUnknownEntity)
	}
	s.drag.Move(e, x, y)
	return nil
}

func (s *Session) DragEnd(id string) error {
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("drag %q: %w", id, bubble.ErrUnknownEntity)
	}
	s.drag.End(e)
	s.log.Debug("drag end", "id", id)
	return nil
}

// Dragging returns the drag state of id.
func (s *Session) Dragging(id string) bool { return s.drag.State(id) == interact.Pinned }

// EntityAt returns the topmost entity whose circle contains (x, y).
// Entities drawn later are on top.
func (s *Session) EntityAt(x, y float64) (*bubble.Entity, bool) {
	for i := len(s.entities) - 1; i >= 0; i-- {
		e := s.entities[i]
		dx, dy := x-e.X, y-e.Y
		if dx*dx+dy*dy <= e.Radius*e.Radius {
			return e, true
		}
	}
	return nil, false
}

func (s *Session) Entity(id string) (*bubble.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Entities returns the entity store in packing order.
func (s *Session) Entities() []*bubble.Entity { return s.entities }

func (s *Session) Year() int                   { return s.year }
func (s *Session) YearRange() bubble.YearRange { return s.yr }
func (s *Session) Alpha() float64              { return s.sim.Alpha() }
func (s *Session) Now() time.Duration          { return s.now }
func (s *Session) Config() config.Config       { return s.cfg }

// Legend returns the low and high legend labels.
func (s *Session) Legend() (string, string) { return s.cfg.Legend.Low, s.cfg.Legend.High }

// ResourceKey returns the external image key of id.
func (s *Session) ResourceKey(id string) (string, bool) { return s.resources.Key(id) }

// ResourcePath returns the flag image path of id, or "" if it has none.
func (s *Session) ResourcePath(id string) string { return s.resources.Path(s.cfg.FlagDir, id) }
