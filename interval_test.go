package udf

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
)

func TestIntervalCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want int
	}{
		{
			name: "equal",
			a:    Interval{Months: 1, Days: 2, Nanos: 3},
			b:    Interval{Months: 1, Days: 2, Nanos: 3},
			want: 0,
		},
		{
			name: "months dominate days",
			a:    Interval{Months: 1},
			b:    Interval{Days: 1000, Nanos: 1000},
			want: 1,
		},
		{
			name: "days dominate nanos",
			a:    Interval{Months: 1, Days: 2},
			b:    Interval{Months: 1, Days: 1, Nanos: 1 << 60},
			want: 1,
		},
		{
			name: "nanos break ties",
			a:    Interval{Months: 1, Days: 2, Nanos: 3},
			b:    Interval{Months: 1, Days: 2, Nanos: 4},
			want: -1,
		},
		{
			name: "negative months order first",
			a:    Interval{Months: -1, Days: 100},
			b:    Interval{},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
			if want := tt.want < 0; tt.a.Less(tt.b) != want {
				t.Errorf("Less(%v, %v) = %v, want %v", tt.a, tt.b, !want, want)
			}
		})
	}
}

func TestIntervalNoNormalization(t *testing.T) {
	// 31 days are not one month: the fields are independent and equality is
	// exact per field.
	a := Interval{Months: 1}
	b := Interval{Days: 31}
	if a == b {
		t.Error("1 month must not equal 31 days")
	}
	if !b.Less(a) {
		t.Error("31 days must order before 1 month")
	}
}

func TestIntervalAsMapKey(t *testing.T) {
	m := map[Interval]string{
		{Months: 1}:                      "a",
		{Days: 1}:                        "b",
		{Months: 1, Days: 2, Nanos: 3}:   "c",
		{Months: 1, Days: 2, Nanos: -3}:  "d",
	}
	if len(m) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", len(m))
	}
	if got := m[Interval{Months: 1, Days: 2, Nanos: 3}]; got != "c" {
		t.Errorf("lookup returned %q, want %q", got, "c")
	}
}

func TestIntervalMonthDayNanoConversion(t *testing.T) {
	in := Interval{Months: 7, Days: -3, Nanos: 123456789}
	got := IntervalFromMonthDayNano(in.MonthDayNano())
	if got != in {
		t.Errorf("round trip changed value: %v -> %v", in, got)
	}

	av := arrow.MonthDayNanoInterval{Months: 1, Days: 2, Nanoseconds: 3}
	if IntervalFromMonthDayNano(av) != (Interval{Months: 1, Days: 2, Nanos: 3}) {
		t.Errorf("conversion from arrow value mismatch: %v", av)
	}
}
