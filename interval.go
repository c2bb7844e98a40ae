package udf

import (
	"cmp"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Interval is the time-span value used by generated function signatures:
// whole months, whole days, and nanoseconds, each counted independently.
//
// The type carries no normalization invariant: 31 days are not folded into a
// month, and equality is exact per field. It is comparable and therefore
// usable as a map key.
type Interval struct {
	Months int32
	Days   int32
	Nanos  int64
}

// Compare orders intervals lexicographically by (Months, Days, Nanos).
// It returns -1, 0 or 1.
func (i Interval) Compare(other Interval) int {
	if c := cmp.Compare(i.Months, other.Months); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Days, other.Days); c != 0 {
		return c
	}
	return cmp.Compare(i.Nanos, other.Nanos)
}

// Less reports whether i orders before other.
func (i Interval) Less(other Interval) bool {
	return i.Compare(other) < 0
}

func (i Interval) String() string {
	return fmt.Sprintf("%d mons %d days %d ns", i.Months, i.Days, i.Nanos)
}

// MonthDayNano converts the interval to the Arrow column representation.
func (i Interval) MonthDayNano() arrow.MonthDayNanoInterval {
	return arrow.MonthDayNanoInterval{Months: i.Months, Days: i.Days, Nanoseconds: i.Nanos}
}

// IntervalFromMonthDayNano converts an Arrow month-day-nano value.
func IntervalFromMonthDayNano(v arrow.MonthDayNanoInterval) Interval {
	return Interval{Months: v.Months, Days: v.Days, Nanos: v.Nanoseconds}
}
