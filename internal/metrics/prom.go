package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Exporter mirrors layout metrics into a Prometheus registry so batch runs
// can be picked up by a node_exporter textfile collector.
type Exporter struct {
	reg      *prometheus.Registry
	values   *prometheus.GaugeVec
	frames   prometheus.Gauge
	entities prometheus.Gauge
	settled  prometheus.Gauge
}

func NewExporter() *Exporter {
	e := &Exporter{
		reg: prometheus.NewRegistry(),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "forcebubble",
			Name:      "layout_metric",
			Help:      "Final value of a layout metric.",
		}, []string{"metric", "year"}),
		frames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcebubble",
			Name:      "layout_frames",
			Help:      "Frames run before the layout settled or gave up.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcebubble",
			Name:      "layout_entities",
			Help:      "Entities in the layout.",
		}),
		settled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcebubble",
			Name:      "layout_settled",
			Help:      "1 if the layout came to rest.",
		}),
	}
	e.reg.MustRegister(e.values, e.frames, e.entities, e.settled)
	return e
}

func (e *Exporter) Registry() *prometheus.Registry { return e.reg }

// Record sets every gauge from one finished layout.
func (e *Exporter) Record(year string, frames, entities int, settled bool, values map[string]float64) {
	for name, v := range values {
		e.values.WithLabelValues(name, year).Set(v)
	}
	e.frames.Set(float64(frames))
	e.entities.Set(float64(entities))
	if settled {
		e.settled.Set(1)
	} else {
		e.settled.Set(0)
	}
}

// WriteTextfile writes the registry in the text exposition format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.reg)
}
