// Package connindex indexes borewell connections by borewell id using a
// chained hash table.
package connindex

import (
	"iter"

	"github.com/LeonardoBeccarini/borewell_project/internal/model/entities"
)

const DefaultTableSize = 100

type entry struct {
	key int
	pos int // position in Index.records
}

// Index owns every inserted Connection. Buckets reference records by
// position; a repeated key points its chain entry at the newest record while
// the older record stays in the enumeration.
type Index struct {
	records []entities.Connection
	buckets [][]entry
}

// New returns an Index with size buckets (DefaultTableSize if <= 0).
func New(size int) *Index {
	if size <= 0 {
		size = DefaultTableSize
	}
	return &Index{buckets: make([][]entry, size)}
}

func (x *Index) bucketFor(id int) int {
	n := len(x.buckets)
	return ((id % n) + n) % n
}

// Insert stores c and makes it the lookup target for c.BorewellID.
func (x *Index) Insert(c entities.Connection) {
	pos := len(x.records)
	x.records = append(x.records, c)

	b := x.bucketFor(c.BorewellID)
	chain := x.buckets[b]
	for i := range chain {
		if chain[i].key == c.BorewellID {
			chain[i].pos = pos
			return
		}
	}
	x.buckets[b] = append(chain, entry{key: c.BorewellID, pos: pos})
}

// Lookup returns the most recently inserted connection for id.
func (x *Index) Lookup(id int) (entities.Connection, bool) {
	for _, e := range x.buckets[x.bucketFor(id)] {
		if e.key == id {
			return x.records[e.pos], true
		}
	}
	return entities.Connection{}, false
}

// All yields every inserted connection, most recent first.
func (x *Index) All() iter.Seq[entities.Connection] {
	snap := x.records[:len(x.records):len(x.records)]
	return func(yield func(entities.Connection) bool) {
		for i := len(snap) - 1; i >= 0; i-- {
			if !yield(snap[i]) {
				return
			}
		}
	}
}

// Len counts inserted records, including superseded ones.
func (x *Index) Len() int { return len(x.records) }

// Keys counts distinct borewell ids.
func (x *Index) Keys() int {
	n := 0
	for _, chain := range x.buckets {
		n += len(chain)
	}
	return n
}

func (x *Index) TableSize() int { return len(x.buckets) }
