// Package cart keeps the shopping cart: an ordered list of good ids where a
// repeated id is one more unit of that good.
package cart

import "slices"

// List is the cart contents. Operations never modify the receiver.
type List []int64

// Toggle appends id when absent and otherwise removes one occurrence. It
// reports whether id was added.
func (l List) Toggle(id int64) (List, bool) {
	if l.Contains(id) {
		return l.Decrement(id), false
	}
	return l.Increment(id), true
}

func (l List) Increment(id int64) List {
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	return append(out, id)
}

// Decrement removes the first occurrence of id. An absent id is a no-op.
func (l List) Decrement(id int64) List {
	i := slices.Index(l, id)
	if i < 0 {
		return slices.Clone(l)
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

func (l List) RemoveAll(id int64) List {
	out := make(List, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Count is the number of units, not distinct goods.
func (l List) Count() int {
	return len(l)
}

func (l List) Contains(id int64) bool {
	return slices.Contains(l, id)
}

func (l List) Quantities() map[int64]int {
	q := make(map[int64]int, len(l))
	for _, id := range l {
		q[id]++
	}
	return q
}

// Distinct returns each id once, in order of first appearance.
func (l List) Distinct() []int64 {
	seen := make(map[int64]struct{}, len(l))
	var out []int64
	for _, id := range l {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
