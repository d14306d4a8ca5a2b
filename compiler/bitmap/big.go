// Package bitmap is a small grow-on-demand bit set keyed by dense
// non-negative indexes, the shape block-level graph analyses want.
package bitmap

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Big is a bit set. The zero value is not ready to use, call
	// Make or MakeSize.
	Big struct {
		b  []uint64
		b0 [1]uint64
	}
)

func Make() Big {
	s := Big{}
	s.b = s.b0[:]

	return s
}

// MakeSize preallocates room for indexes below size.
func MakeSize(size int) Big {
	s := Big{}
	s.b = s.b0[:]

	n := (size + 63) / 64
	if n > len(s.b) {
		s.b = make([]uint64, n)
	}

	return s
}

func (s *Big) Set(i int) {
	i, j := s.ij(i)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s Big) IsSet(i int) bool {
	i, j := s.ij(i)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s *Big) Or(x Big) {
	s.grow(len(x.b) - 1)

	for i, x := range x.b {
		s.b[i] |= x
	}
}

func (s Big) Size() (r int) {
	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

// Range calls f on every set index in ascending order until f
// returns false.
func (s Big) Range(f func(i int) bool) {
	for i, x := range s.b {
		if x == 0 {
			continue
		}

		for j := 0; j < 64; j++ {
			if x&(1<<j) == 0 {
				continue
			}

			if !f(i*64 + j) {
				return
			}
		}
	}
}

// First returns the lowest set index, -1 when the set is empty.
func (s Big) First() int {
	for i, x := range s.b {
		if x == 0 {
			continue
		}

		return i*64 + bits.TrailingZeros64(x)
	}

	return -1
}

func (s Big) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func (s Big) ij(pos int) (i, j int) {
	return pos / 64, pos % 64
}

func (s *Big) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}
