package output

import (
	"math"
	"testing"
)

func TestTrimmer(t *testing.T) {
	type span struct{ start, end int }
	tests := []struct {
		name    string
		preRoll int
		total   uint64
		blocks  []int
		want    []span
		emitted uint64
		done    bool
	}{
		{
			name:    "pre-roll one block",
			preRoll: 4,
			total:   math.MaxUint64,
			blocks:  []int{4, 4, 4},
			want:    []span{{4, 4}, {0, 4}, {0, 4}},
			emitted: 8,
		},
		{
			name:    "pre-roll spans blocks",
			preRoll: 6,
			total:   math.MaxUint64,
			blocks:  []int{4, 4},
			want:    []span{{4, 4}, {2, 4}},
			emitted: 2,
		},
		{
			name:    "total cap mid block",
			preRoll: 4,
			total:   6,
			blocks:  []int{4, 4, 4, 4},
			want:    []span{{4, 4}, {0, 4}, {0, 2}, {0, 0}},
			emitted: 6,
			done:    true,
		},
		{
			name:    "cap inside pre-roll block",
			preRoll: 2,
			total:   1,
			blocks:  []int{4},
			want:    []span{{2, 3}},
			emitted: 1,
			done:    true,
		},
		{
			name:    "zero total",
			preRoll: 2,
			total:   0,
			blocks:  []int{4, 4},
			want:    []span{{2, 2}, {0, 0}},
			emitted: 0,
			done:    true,
		},
		{
			name:    "no cap",
			total:   math.MaxUint64,
			blocks:  []int{3, 5},
			want:    []span{{0, 3}, {0, 5}},
			emitted: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTrimmer(tt.preRoll, tt.total)
			for i, n := range tt.blocks {
				start, end := tr.Trim(n)
				if start != tt.want[i].start || end != tt.want[i].end {
					t.Errorf("block %d: Trim(%d) = [%d,%d), want [%d,%d)",
						i, n, start, end, tt.want[i].start, tt.want[i].end)
				}
			}
			if tr.Emitted() != tt.emitted {
				t.Errorf("Emitted() = %d, want %d", tr.Emitted(), tt.emitted)
			}
			if tr.Done() != tt.done {
				t.Errorf("Done() = %v, want %v", tr.Done(), tt.done)
			}
		})
	}
}
