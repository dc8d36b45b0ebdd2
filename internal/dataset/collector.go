// Package dataset reconstructs per-case temporal sequences from archive
// walks and groups them by length for fixed-batch ML consumption.
package dataset

import (
	"sort"

	"github.com/sara-nl/spparks-hpc/internal/vti"
)

// Sequence is one case's full temporal trace, ascending in time. The sorted
// order is the time axis; indices are not kept.
type Sequence []*vti.Grid

// Dataset maps sequence length to every sequence of that length, in archive
// encounter order. Consumers batch per length, so bucketing up front saves a
// re-scan over an unbounded number of cases.
type Dataset map[int][]Sequence

// CaseSummary records what one case directory contributed.
type CaseSummary struct {
	Name      string
	Snapshots int
}

type timedGrid struct {
	time int
	grid *vti.Grid
}

// Collector accumulates snapshots between directory boundaries of a single
// archive walk. One Collector per run; it is an explicit accumulator rather
// than package state because the stream has no index to re-query.
type Collector struct {
	open     bool
	caseName string
	buf      []timedGrid
	ds       Dataset
	cases    []CaseSummary
}

// NewCollector returns an empty Collector with an empty Dataset.
func NewCollector() *Collector {
	return &Collector{ds: Dataset{}}
}

// StartCase marks a directory boundary: the previously open case (if any) is
// flushed into the dataset and a fresh buffer opens for name.
func (c *Collector) StartCase(name string) {
	if c.open {
		c.flush()
	}
	c.open = true
	c.caseName = name
}

// Add buffers one snapshot for the currently open case.
func (c *Collector) Add(time int, g *vti.Grid) {
	c.open = true
	c.buf = append(c.buf, timedGrid{time: time, grid: g})
}

// Finish flushes the last open case and returns the dataset. The Collector
// must not be reused afterwards.
func (c *Collector) Finish() Dataset {
	if c.open {
		c.flush()
	}
	return c.ds
}

// Cases returns the per-case summaries in encounter order. Only meaningful
// after Finish.
func (c *Collector) Cases() []CaseSummary {
	return c.cases
}

// flush sorts the buffered snapshots by time index and buckets the resulting
// sequence under its length. The sort is stable: duplicate indices should
// not occur in well-formed archives, but if they do, encounter order decides.
// A case with no matching snapshots lands in bucket 0; dropping empties is a
// downstream choice, not ours.
func (c *Collector) flush() {
	sort.SliceStable(c.buf, func(i, j int) bool { return c.buf[i].time < c.buf[j].time })

	seq := make(Sequence, len(c.buf))
	for i, tg := range c.buf {
		seq[i] = tg.grid
	}
	c.ds[len(seq)] = append(c.ds[len(seq)], seq)
	c.cases = append(c.cases, CaseSummary{Name: c.caseName, Snapshots: len(seq)})

	c.buf = c.buf[:0]
	c.open = false
	c.caseName = ""
}
