package campaign

import "testing"

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		participants int
		want         int64
	}{
		{"exact division", 300, 2, 150},
		{"rounds up", 50000, 3, 16667},
		{"single participant", 500, 1, 500},
		{"zero participants treated as one", 500, 0, 500},
		{"zero total", 0, 3, 0},
		{"one unit each", 3, 3, 1},
		{"more participants than units", 2, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitEven(tt.total, tt.participants); got != tt.want {
				t.Errorf("SplitEven(%d, %d) = %d, want %d", tt.total, tt.participants, got, tt.want)
			}
		})
	}
}

// The collected sum must never fall short of the total, and the surplus
// must be minimal: one fewer participant at the same share would not
// cover the total.
func TestSplitEvenCeilingProperty(t *testing.T) {
	totals := []int64{0, 1, 2, 99, 100, 101, 300, 50000, 1000001}
	for _, total := range totals {
		for n := 1; n <= 25; n++ {
			per := SplitEven(total, n)

			if per*int64(n) < total {
				t.Errorf("total=%d n=%d: collected %d falls short", total, n, per*int64(n))
			}
			if total > 0 && per*int64(n-1) >= total {
				t.Errorf("total=%d n=%d: share %d is not minimal", total, n, per)
			}
		}
	}
}
