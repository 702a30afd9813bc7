// Package urgency buckets due dates relative to now for display coloring.
package urgency

const (
	Day  int64 = 86_400
	Week int64 = 7 * Day
)

type Bucket int

const (
	LessThanDay Bucket = iota
	LessThanWeek
	PastDue
	MoreThanWeek
)

func (b Bucket) String() string {
	switch b {
	case LessThanDay:
		return "less than a day"
	case LessThanWeek:
		return "less than a week"
	case PastDue:
		return "past due"
	case MoreThanWeek:
		return "more than a week away"
	default:
		return "unknown"
	}
}

// Classify maps due (unix seconds) to a bucket relative to now. The first
// matching branch wins, so any overdue entry lands in LessThanDay and
// PastDue is never returned.
func Classify(due, now int64) Bucket {
	delta := due - now
	switch {
	case delta < Day:
		return LessThanDay
	case delta < Week:
		return LessThanWeek
	case delta < 0:
		return PastDue
	default:
		return MoreThanWeek
	}
}
