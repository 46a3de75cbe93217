// Package compressor packs the dense action and goto matrices of a compiled grammar.
//
// Identical rows are merged first. The remaining row classes are then overlaid in a single
// vector by row displacement: each class gets an offset, and a slot of the vector is owned by
// at most one class. A lookup that lands on a slot owned by another class yields the empty value.
package compressor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dense is a row-major matrix.
type Dense struct {
	entries []int
	rows    int
	cols    int
}

func NewDense(entries []int, cols int) (*Dense, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("a column count must be >= 1: %v", cols)
	}
	if len(entries)%cols != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), cols)
	}

	return &Dense{
		entries: entries,
		rows:    len(entries) / cols,
		cols:    cols,
	}, nil
}

func (d *Dense) Size() (int, int) {
	return d.rows, d.cols
}

func (d *Dense) row(r int) []int {
	return d.entries[r*d.cols : (r+1)*d.cols]
}

// Table is a packed matrix. Its fields are exported so that it can be embedded in JSON.
type Table struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Empty int `json:"empty"`

	// RowClass maps a row to the class of rows equal to it.
	RowClass []int `json:"row_class"`

	// Offset is the displacement of each class in Entries.
	Offset []int `json:"offset"`

	Entries []int `json:"entries"`

	// Owner is the class that owns each slot of Entries, or -1.
	Owner []int `json:"owner"`
}

const noOwner = -1

// Compress packs d. Entries equal to empty are not stored.
func Compress(d *Dense, empty int) *Table {
	classOf := map[string]int{}
	rowClass := make([]int, d.rows)
	var reps []int
	for r := 0; r < d.rows; r++ {
		k := rowKey(d.row(r))
		c, ok := classOf[k]
		if !ok {
			c = len(reps)
			classOf[k] = c
			reps = append(reps, r)
		}
		rowClass[r] = c
	}

	type classInfo struct {
		class int
		cols  []int
	}
	infos := make([]classInfo, len(reps))
	for c, r := range reps {
		infos[c].class = c
		for col, v := range d.row(r) {
			if v != empty {
				infos[c].cols = append(infos[c].cols, col)
			}
		}
	}
	// Dense rows are the hardest to fit, so they are placed first.
	sort.SliceStable(infos, func(i, j int) bool {
		return len(infos[i].cols) > len(infos[j].cols)
	})

	tab := &Table{
		Rows:     d.rows,
		Cols:     d.cols,
		Empty:    empty,
		RowClass: rowClass,
		Offset:   make([]int, len(reps)),
	}
	for _, info := range infos {
		if len(info.cols) == 0 {
			continue
		}
		off := tab.fit(info.cols)
		tab.Offset[info.class] = off
		row := d.row(reps[info.class])
		for _, col := range info.cols {
			tab.Entries[off+col] = row[col]
			tab.Owner[off+col] = info.class
		}
	}

	return tab
}

// fit finds the first offset at which every column in cols falls on a free slot, growing the
// vector as needed.
func (t *Table) fit(cols []int) int {
	for off := 0; ; off++ {
		free := true
		for _, col := range cols {
			if off+col < len(t.Owner) && t.Owner[off+col] != noOwner {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for need := off + cols[len(cols)-1] + 1; len(t.Owner) < need; {
			t.Entries = append(t.Entries, t.Empty)
			t.Owner = append(t.Owner, noOwner)
		}
		return off
	}
}

func rowKey(row []int) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(',')
	}
	return b.String()
}

// Lookup returns the entry at row and col, or the empty value when it is not stored.
func (t *Table) Lookup(row, col int) int {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return t.Empty
	}
	c := t.RowClass[row]
	i := t.Offset[c] + col
	if i >= len(t.Owner) || t.Owner[i] != c {
		return t.Empty
	}
	return t.Entries[i]
}

// Ratio returns the stored size divided by the dense size.
func (t *Table) Ratio() float64 {
	if t.Rows*t.Cols == 0 {
		return 0
	}
	stored := len(t.Entries) + len(t.Owner) + len(t.RowClass) + len(t.Offset)
	return float64(stored) / float64(t.Rows*t.Cols)
}
