package core

import (
	"strconv"
	"time"
)

// IDGenerator hands out strictly increasing client ids.
// Not safe for concurrent use; the Hub loop owns it.
type IDGenerator struct {
	next int64
}

// NewIDGenerator starts counting at seed. A non-positive seed means "now in
// milliseconds", which keeps ids from colliding with a previous process.
func NewIDGenerator(seed int64) *IDGenerator {
	if seed <= 0 {
		seed = time.Now().UnixMilli()
	}
	return &IDGenerator{next: seed}
}

// Next returns the next id.
func (g *IDGenerator) Next() int64 {
	id := g.next
	g.next++
	return id
}

// Disambiguator is the process-wide username suffix counter. It starts at 1,
// never resets and is shared by every rename.
type Disambiguator struct {
	next int64
}

// NewDisambiguator returns a counter whose first suffix is 1.
func NewDisambiguator() *Disambiguator {
	return &Disambiguator{next: 1}
}

// Peek returns the suffix the next call to Suffix will produce.
func (d *Disambiguator) Peek() int64 { return d.next }

// Suffix returns the current counter value as a string and advances it.
func (d *Disambiguator) Suffix() string {
	s := strconv.FormatInt(d.next, 10)
	d.next++
	return s
}
