package huffman

import (
	"container/heap"
	"errors"
)

// ErrLengthLimit indicates that the length fix-up gave up before every
// code fit in MaxCodeLength bits.
var ErrLengthLimit = errors.New("huffman: code lengths exceed limit after fix-up")

// maxFixupRounds bounds the length-limiting loop of DeriveLengths.
const maxFixupRounds = 32

// node is a leaf or merged subtree during tree construction.
type node struct {
	freq uint64
	id   int
}

// nodeHeap orders nodes by frequency, then by id. Leaves carry their symbol
// as id and merged nodes get increasing ids above the last symbol.
type nodeHeap []node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].id < h[j].id
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// treeDepths builds the Huffman tree for freqs by repeatedly merging the two
// lowest nodes and returns the depth of every leaf.
func treeDepths(freqs []uint64) []int {
	n := len(freqs)
	depths := make([]int, n)
	if n < 2 {
		for i := range depths {
			depths[i] = 1
		}
		return depths
	}

	h := make(nodeHeap, n)
	for sym, f := range freqs {
		h[sym] = node{freq: f, id: sym}
	}
	heap.Init(&h)

	parent := make([]int, 2*n-1)
	next := n
	for h.Len() > 1 {
		a := heap.Pop(&h).(node)
		b := heap.Pop(&h).(node)
		parent[a.id] = next
		parent[b.id] = next
		heap.Push(&h, node{freq: a.freq + b.freq, id: next})
		next++
	}

	root := next - 1
	for sym := range depths {
		d := 0
		for j := sym; j != root; j = parent[j] {
			d++
		}
		depths[sym] = d
	}
	return depths
}

// DeriveLengths returns Huffman code lengths for the given symbol
// frequencies. Every symbol gets a code, including those with frequency 0.
//
// When a code comes out longer than MaxCodeLength the frequency of each
// such symbol is raised and the tree rebuilt. The raise doubles every round
// and the loop stops with ErrLengthLimit after a fixed number of rounds.
func DeriveLengths(freqs []uint64) ([]uint8, error) {
	f := append([]uint64(nil), freqs...)
	bump := uint64(1)

	for round := 0; round < maxFixupRounds; round++ {
		depths := treeDepths(f)

		over := false
		for sym, d := range depths {
			if d > MaxCodeLength {
				f[sym] += bump
				over = true
			}
		}
		if !over {
			lengths := make([]uint8, len(depths))
			for sym, d := range depths {
				lengths[sym] = uint8(d)
			}
			return lengths, nil
		}
		bump <<= 1
	}
	return nil, ErrLengthLimit
}
