package urgency

import "testing"

func TestClassify(t *testing.T) {
	const now = 1000
	tests := []struct {
		name string
		due  int64
		want Bucket
	}{
		{"one hour ahead", now + 3600, LessThanDay},
		{"one hour overdue", now - 3600, LessThanDay},
		{"a month overdue", now - 30*Day, LessThanDay},
		{"exactly one day ahead", now + Day, LessThanWeek},
		{"three days ahead", now + 3*Day, LessThanWeek},
		{"exactly one week ahead", now + Week, MoreThanWeek},
		{"a month ahead", now + 30*Day, MoreThanWeek},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.due, now); got != tt.want {
				t.Fatalf("Classify(%d, %d) = %v, want %v", tt.due, now, got, tt.want)
			}
		})
	}
}

func TestBucketString(t *testing.T) {
	if PastDue.String() != "past due" {
		t.Fatalf("unexpected label %q", PastDue.String())
	}
	if Bucket(99).String() != "unknown" {
		t.Fatalf("unexpected label for out of range bucket")
	}
}
