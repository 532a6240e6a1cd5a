package force_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/force"
)

func entity(id string, x, y, r float64) *bubble.Entity {
	return &bubble.Entity{ID: id, X: x, Y: y, Radius: r, Target: r}
}

func gap(a, b *bubble.Entity) float64 {
	return bubble.Distance(a, b) - a.Radius - b.Radius
}

func run(sim *force.Simulation, n int) {
	for i := 0; i < n; i++ {
		sim.Tick()
	}
}

var _ = Describe("Simulation", func() {
	Describe("alpha", func() {
		It("decays toward the target and stops below the minimum", func() {
			sim := force.New(nil, 1)
			Expect(sim.Alpha()).To(Equal(1.0))

			prev := sim.Alpha()
			steps := 0
			for sim.Step() {
				Expect(sim.Alpha()).To(BeNumerically("<", prev))
				prev = sim.Alpha()
				steps++
				Expect(steps).To(BeNumerically("<", 1000))
			}
			Expect(steps).To(BeNumerically("~", 300, 2))
			Expect(sim.Active()).To(BeFalse())
			Expect(sim.Alpha()).To(BeNumerically("<", sim.AlphaMin()))
		})

		It("stays active while the target is above the minimum", func() {
			sim := force.New(nil, 1)
			sim.SetAlphaTarget(0.2)
			for i := 0; i < 2000; i++ {
				Expect(sim.Step()).To(BeTrue())
			}
			Expect(sim.Alpha()).To(BeNumerically("~", 0.2, 1e-6))
		})

		It("resumes after Restart with a raised alpha", func() {
			sim := force.New(nil, 1)
			for sim.Step() {
			}
			sim.SetAlpha(0.2)
			sim.Restart()
			Expect(sim.Active()).To(BeTrue())
			Expect(sim.Step()).To(BeTrue())

			sim.Stop()
			Expect(sim.Step()).To(BeFalse())
		})
	})

	Describe("Add", func() {
		It("replaces a force registered under the same name", func() {
			sim := force.New(nil, 1)
			first, second := force.NewX(0, 0.1), force.NewX(0, 0.2)
			sim.Add("x", first).Add("x", second)
			Expect(sim.Force("x")).To(BeIdenticalTo(second))
			Expect(sim.Force("y")).To(BeNil())
		})
	})

	Describe("Collide", func() {
		It("separates overlapping entities by the padded radii", func() {
			a, b := entity("a", 0, 0, 10), entity("b", 5, 0, 10)
			sim := force.New([]*bubble.Entity{a, b}, 1).Add("collide", force.NewCollide(1))
			run(sim, 200)

			Expect(gap(a, b)).To(BeNumerically(">=", 2-1e-6))
		})

		It("separates coincident entities without NaN", func() {
			a, b := entity("a", 3, 3, 4), entity("b", 3, 3, 4)
			sim := force.New([]*bubble.Entity{a, b}, 7).Add("collide", force.NewCollide(1))
			run(sim, 300)

			Expect(math.IsNaN(a.X) || math.IsNaN(b.X)).To(BeFalse())
			Expect(gap(a, b)).To(BeNumerically(">=", 1))
		})

		It("reads radii live so a grown radius pushes neighbors on the next tick", func() {
			a, b := entity("a", 0, 0, 5), entity("b", 20, 0, 5)
			sim := force.New([]*bubble.Entity{a, b}, 1).Add("collide", force.NewCollide(1))
			run(sim, 10)
			Expect(a.X).To(Equal(0.0))

			a.Radius = 20
			sim.Tick()
			Expect(a.VX).To(BeNumerically("<", 0))
			Expect(b.VX).To(BeNumerically(">", 0))
		})

		It("treats pinned entities as immovable obstacles", func() {
			a, b := entity("USA", 0, 0, 10), entity("CAN", 4, 0, 10)
			a.Pin(0, 0)
			sim := force.New([]*bubble.Entity{a, b}, 1).
				Add("charge", force.NewManyBody()).
				Add("collide", force.NewCollide(1))
			run(sim, 200)

			Expect(a.X).To(Equal(0.0))
			Expect(a.Y).To(Equal(0.0))
			Expect(gap(a, b)).To(BeNumerically(">=", 1))
		})

		It("reports the deepest padded overlap until it is resolved", func() {
			a, b, c := entity("a", 0, 0, 10), entity("b", 15, 0, 10), entity("c", 100, 0, 5)
			collide := force.NewCollide(1)
			sim := force.New([]*bubble.Entity{a, b, c}, 1).Add("collide", collide)
			Expect(collide.MaxOverlap()).To(BeNumerically("~", 7, 1e-9))

			run(sim, 200)
			Expect(collide.MaxOverlap()).To(BeNumerically("<", 1e-6))
		})

		It("ignores overlaps between two pinned entities", func() {
			a, b := entity("a", 0, 0, 10), entity("b", 5, 0, 10)
			a.Pin(0, 0)
			b.Pin(5, 0)
			collide := force.NewCollide(1)
			force.New([]*bubble.Entity{a, b}, 1).Add("collide", collide)
			Expect(collide.MaxOverlap()).To(Equal(0.0))
		})
	})

	Describe("ManyBody", func() {
		It("pushes entities apart", func() {
			a, b := entity("a", -5, 0, 0), entity("b", 5, 0, 0)
			sim := force.New([]*bubble.Entity{a, b}, 1).Add("charge", force.NewManyBody())
			run(sim, 20)
			Expect(bubble.Distance(a, b)).To(BeNumerically(">", 10))
		})
	})

	Describe("centering", func() {
		It("pulls free entities toward the target and ignores pinned ones", func() {
			free, held := entity("free", 100, -50, 1), entity("held", 100, -50, 1)
			held.Pin(100, -50)
			sim := force.New([]*bubble.Entity{free, held}, 1).
				Add("x", force.NewX(0, 0.2)).
				Add("y", force.NewY(0, 0.2))
			run(sim, 300)

			Expect(math.Abs(free.X)).To(BeNumerically("<", 1))
			Expect(math.Abs(free.Y)).To(BeNumerically("<", 1))
			Expect(held.X).To(Equal(100.0))
			Expect(held.Y).To(Equal(-50.0))
		})
	})

	Describe("a settled cluster", func() {
		It("keeps every pair apart by at least the radii plus one", func() {
			var nodes []*bubble.Entity
			for i := 0; i < 30; i++ {
				angle := float64(i) * 0.7
				nodes = append(nodes, entity("n", 480+math.Cos(angle)*float64(i), 300+math.Sin(angle)*float64(i), float64(i%5+3)))
			}
			sim := force.New(nodes, 1).
				Add("charge", force.NewManyBody()).
				Add("collide", force.NewCollide(1)).
				Add("x", force.NewX(480, 0.2)).
				Add("y", force.NewY(300, 0.2))
			for sim.Step() {
			}

			for i := range nodes {
				for j := i + 1; j < len(nodes); j++ {
					Expect(gap(nodes[i], nodes[j])).To(BeNumerically(">=", 1-1e-3), "pair %d,%d", i, j)
				}
			}
		})
	})
})
