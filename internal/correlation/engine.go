// Package correlation computes Pearson coefficients between the numeric
// fields of two stored datasets, aligned on shared dates.
package correlation

import (
	"fmt"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
)

// SnapshotReader provides the current series of a dataset.
type SnapshotReader interface {
	Get(d domain.Dataset) domain.Series
}

// Result maps "<fieldA> vs <fieldB>" to a coefficient in [-1, 1].
// Undefined pairs are absent.
type Result struct {
	Correlations map[string]float64 `json:"correlations"`
	Dataset1     domain.Dataset     `json:"dataset1"`
	Dataset2     domain.Dataset     `json:"dataset2"`
}

// Engine correlates stored snapshots. It only reads from the store.
type Engine struct {
	snapshots SnapshotReader
}

// NewEngine creates an Engine over a snapshot reader.
func NewEngine(snapshots SnapshotReader) *Engine {
	return &Engine{snapshots: snapshots}
}

// Correlate computes every numeric field pair between datasets a and b.
// Both snapshots are read once, so a concurrent store update that lands
// mid-computation does not affect the result.
func (e *Engine) Correlate(a, b domain.Dataset) (Result, error) {
	seriesA := e.snapshots.Get(a)
	seriesB := seriesA
	if b != a {
		seriesB = e.snapshots.Get(b)
	}
	if seriesA.Len() == 0 || seriesB.Len() == 0 {
		return Result{}, fmt.Errorf("correlate %s with %s: %w", a, b, domain.ErrEmptyDataset)
	}
	return Compute(seriesA, seriesB), nil
}

// Compute correlates two series directly.
func Compute(a, b domain.Series) Result {
	pairs := join(a, b)
	out := Result{
		Correlations: make(map[string]float64),
		Dataset1:     a.Dataset,
		Dataset2:     b.Dataset,
	}
	for _, fa := range a.Schema.NumericFields() {
		for _, fb := range b.Schema.NumericFields() {
			xs, ys := align(pairs, fa, fb)
			if r, ok := Pearson(xs, ys); ok {
				out.Correlations[fa+" vs "+fb] = r
			}
		}
	}
	return out
}

// pair is one row of the date join.
type pair struct {
	a, b *domain.Record
}

// join inner-joins a and b on exact date equality. Dates repeated within a
// series produce every combination. A series joined with itself pairs each
// record only with itself.
func join(a, b domain.Series) []pair {
	if a.Dataset == b.Dataset && sameRecords(a, b) {
		out := make([]pair, len(a.Records))
		for i := range a.Records {
			out[i] = pair{&a.Records[i], &a.Records[i]}
		}
		return out
	}

	byDate := make(map[string][]int, len(b.Records))
	for i, r := range b.Records {
		byDate[r.Date] = append(byDate[r.Date], i)
	}

	var out []pair
	for i := range a.Records {
		for _, j := range byDate[a.Records[i].Date] {
			out = append(out, pair{&a.Records[i], &b.Records[j]})
		}
	}
	return out
}

func sameRecords(a, b domain.Series) bool {
	return len(a.Records) == len(b.Records) && (len(a.Records) == 0 || &a.Records[0] == &b.Records[0])
}

// align extracts the value pairs for fields fa and fb, dropping rows where
// either value is null.
func align(pairs []pair, fa, fb string) ([]float64, []float64) {
	xs := make([]float64, 0, len(pairs))
	ys := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		x, okA := p.a.Number(fa)
		y, okB := p.b.Number(fb)
		if !okA || !okB {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
