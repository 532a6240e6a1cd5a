package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/session"
)

const (
	width        = 80
	height       = 24
	alphaHistory = 40
	frameRate    = 60

	// Cell offset of the canvas inside the rendered view, set by canvasStyle.
	originX, originY = 2, 1

	// Pointer tolerance, in sub-pixels, when no circle contains the pointer.
	pickSlop = 4
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(originY, originX)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a session from bubbletea frames, keys and mouse events.
type Model struct {
	session  *session.Session
	start    time.Time
	canvas   *Canvas
	proj     Projection
	frame    bubble.Frame
	alphas   []float64
	selected string
	dragging string
	showHelp bool
}

func NewModel(s *session.Session) Model {
	cfg := s.Config()
	return Model{
		session: s,
		start:   time.Now(),
		canvas:  NewCanvas(width, height),
		proj:    Fit(cfg.Width, cfg.Height, width, height),
		frame:   s.Snapshot(),
		alphas:  make([]float64, 0, alphaHistory),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and advances the layout one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.selectYear(m.session.Year() - 1)
		case "right", "l":
			m.selectYear(m.session.Year() + 1)
		case "home":
			m.selectYear(m.session.YearRange().Start)
		case "end":
			m.selectYear(m.session.YearRange().End)
		case "tab":
			m.cycleSelected(1)
		case "shift+tab":
			m.cycleSelected(-1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) selectYear(year int) {
	m.session.SelectYear(year, m.session.Now())
}

// advance runs one frame at wall-clock t. Frame times never go backwards.
func (m *Model) advance(t time.Time) {
	now := t.Sub(m.start)
	if prev := m.session.Now(); now < prev {
		now = prev
	}
	m.frame = m.session.Frame(now)
	m.alphas = append(m.alphas, m.frame.Alpha)
	if len(m.alphas) > alphaHistory {
		m.alphas = m.alphas[1:]
	}
}

func (m *Model) cycleSelected(dir int) {
	entities := m.session.Entities()
	if len(entities) == 0 {
		return
	}
	at := -1
	for i, e := range entities {
		if e.ID == m.selected {
			at = i
			break
		}
	}
	switch {
	case at < 0 && dir < 0:
		at = len(entities) - 1
	case at < 0:
		at = 0
	default:
		at = (at + dir + len(entities)) % len(entities)
	}
	m.selected = entities[at].ID
}

// pointer converts a terminal cell to layout coordinates.
func (m *Model) pointer(col, row int) (float64, float64) {
	return m.proj.ToWorld((col-originX)*2+1, (row-originY)*4+2)
}

// pick returns the entity under the pointer, falling back to the nearest
// one within pickSlop sub-pixels of its outline.
func (m *Model) pick(x, y float64) (*bubble.Entity, bool) {
	if e, ok := m.session.EntityAt(x, y); ok {
		return e, true
	}
	slop := pickSlop / m.proj.Scale
	var best *bubble.Entity
	bestD := math.Inf(1)
	for _, e := range m.session.Entities() {
		d := math.Hypot(x-e.X, y-e.Y) - e.Radius
		if d < slop && d < bestD {
			best, bestD = e, d
		}
	}
	return best, best != nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	x, y := m.pointer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.dragging != "" {
			return
		}
		e, ok := m.pick(x, y)
		if !ok {
			return
		}
		if err := m.session.DragStart(e.ID); err == nil {
			m.dragging, m.selected = e.ID, e.ID
		}
	case tea.MouseActionMotion:
		if m.dragging != "" {
			_ = m.session.DragMove(m.dragging, x, y)
		}
	case tea.MouseActionRelease:
		if m.dragging != "" {
			_ = m.session.DragEnd(m.dragging)
			m.dragging = ""
		}
	}
}

// draw renders every bubble onto the canvas. Larger bubbles are labelled
// with their identifier.
func (m *Model) draw() {
	m.canvas.Clear()
	var labels []*bubble.Entity
	for _, e := range m.session.Entities() {
		ink := inkBubble
		switch {
		case e.Pinned():
			ink = inkPinned
		case e.ID == m.selected:
			ink = inkSelected
		}
		m.canvas.Pen(ink)

		x, y := m.proj.ToCanvas(e.X, e.Y)
		r := m.proj.Length(e.Radius)
		m.canvas.DrawCircle(x, y, r)
		if r/2 > len(e.ID) {
			labels = append(labels, e)
		}
	}
	m.canvas.Pen(inkLabel)
	for _, e := range labels {
		x, y := m.proj.ToCanvas(e.X, e.Y)
		m.canvas.Label(x/2-len(e.ID)/2, y/4, e.ID)
	}
}

func (m Model) status() string {
	switch {
	case m.dragging != "":
		return StatusDragging.Render("DRAGGING " + m.dragging)
	case m.frame.Settled:
		return StatusSettled.Render("AT REST")
	default:
		return StatusRunning.Render(AnimatedSpinner(m.frame.Index) + " SETTLING")
	}
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme.palette()))

	yr := m.session.YearRange()
	var s strings.Builder
	s.WriteString(GradientText("FORCE BUBBLES", CurrentTheme.Primary, CurrentTheme.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(YearStyle.Render(fmt.Sprintf("%d", m.session.Year())) + "\n")
	pos := 0.0
	if yr.Len() > 1 {
		pos = float64(m.session.Year()-yr.Start) / float64(yr.Len()-1)
	}
	s.WriteString(fmt.Sprintf("%d %s %d\n\n", yr.Start, Slider(pos, 24), yr.End))

	s.WriteString(MetricLabel.Render("Alpha") + MetricValue.Render(fmt.Sprintf("%.4f", m.frame.Alpha)) + "\n")
	s.WriteString(MetricLabel.Render("") + SparklineChart(m.alphas, 1, alphaHistory) + "\n")
	s.WriteString(MetricLabel.Render("Entities") + MetricValue.Render(fmt.Sprintf("%d", len(m.session.Entities()))) + "\n")

	metrics := m.session.Metrics()
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.3f", metrics[name])) + "\n")
	}

	low, high := m.session.Legend()
	s.WriteString("\n" + Subtle.Render("∘ "+low+"   ◯ "+high) + "\n")

	if e, ok := m.session.Entity(m.selected); ok {
		s.WriteString("\n" + m.entityView(e))
	}

	s.WriteString(helpStyle.Render("←→:Year  Home/End  Tab:Select\nDrag:Pin  T:Theme  ?:Help  Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD AND MOUSE          ║
╠══════════════════════════════════════╣
║  Left/H    - Previous year           ║
║  Right/L   - Next year               ║
║  Home/End  - First / last year       ║
║  Tab       - Select next bubble      ║
║  Drag      - Pin a bubble and move it║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

func (m Model) entityView(e *bubble.Entity) string {
	var s strings.Builder
	s.WriteString(MetricLabel.Render("Name") + MetricValue.Render(e.Name) + "\n")
	key, _ := m.session.ResourceKey(e.ID)
	s.WriteString(MetricLabel.Render("Code") + MetricValue.Render(e.ID+" "+key) + "\n")
	if v, ok := e.Series.At(m.session.YearRange(), m.session.Year()); ok {
		s.WriteString(MetricLabel.Render("Value") + MetricValue.Render(humanize.Comma(int64(v))) + "\n")
	}
	if len(e.Series) > 1 {
		chart := asciigraph.Plot(e.Series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(e.ID))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	return s.String()
}
