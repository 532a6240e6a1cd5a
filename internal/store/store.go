package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/forcebubble/internal/bubble"
)

// DefaultThreshold is the first-year value below which entities are dropped
// on constrained devices.
const DefaultThreshold = 500000

// Excludes lists the World Bank codes that denote country groups rather
// than countries.
var Excludes = []string{
	"ARB", "CEB", "CSS", "EAP", "EAR", "EAS", "ECA", "ECS", "EMU", "EUU",
	"FCS", "HIC", "HPC", "IBD", "IBT", "IDA", "IDB", "IDX", "INX", "LAC",
	"LCN", "LDC", "LIC", "LMC", "LMY", "LTE", "MEA", "MIC", "MNA", "NAC",
	"OED", "OSS", "PRE", "PSS", "PST", "SSA", "SSF", "SST", "TEA", "TEC",
	"TLA", "TMN", "TSA", "TSS", "UMC", "WLD", "SAS",
}

var excluded = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Excludes))
	for _, code := range Excludes {
		m[code] = struct{}{}
	}
	return m
}()

// Excluded reports whether code is an aggregate group code.
func Excluded(code string) bool {
	_, ok := excluded[code]
	return ok
}

// Row is one raw input record: a code, a display name and the raw cell for
// each year.
type Row struct {
	Code  string
	Name  string
	Cells map[int]string
}

type Options struct {
	// Constrained enables the small-entity filter.
	Constrained bool
	// Threshold is the minimum first-year value kept when Constrained.
	// Nil means DefaultThreshold; zero keeps every entity.
	Threshold *float64
}

// Build turns rows into entities with one value per year of yr. Group
// codes, empty codes and repeated codes are dropped; unparsable cells
// become zero.
func Build(rows []Row, yr bubble.YearRange, opts Options) []*bubble.Entity {
	threshold := float64(DefaultThreshold)
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	seen := make(map[string]struct{}, len(rows))
	entities := make([]*bubble.Entity, 0, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" || Excluded(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		series := make(bubble.Series, yr.Len())
		for year := yr.Start; year <= yr.End; year++ {
			series[yr.Index(year)] = ParseValue(row.Cells[year])
		}

		if opts.Constrained && series.First() < threshold {
			continue
		}

		entities = append(entities, &bubble.Entity{
			ID:     code,
			Name:   row.Name,
			Series: series,
		})
	}
	return entities
}

// ParseValue parses a numeric cell. Blank, malformed, NaN and infinite
// cells yield 0.
func ParseValue(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
