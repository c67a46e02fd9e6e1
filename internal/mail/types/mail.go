package types

import (
	"fmt"
	"strings"
	"time"
)

const (
	LabelFilter FilterType = iota
	AfterFilter
)

// gmail search operators expect dates as YYYY/MM/DD
const queryDateFormat = "2006/01/02"

type FilterType int64

func (f FilterType) String() string {
	switch f {
	case LabelFilter:
		return "label"
	case AfterFilter:
		return "after"
	}

	return "unknown"
}

type Filter struct {
	Type  FilterType
	Value string
}

func (f Filter) String() string {
	return fmt.Sprintf("%s:%s", f.Type, f.Value)
}

func Label(name string) Filter {
	return Filter{Type: LabelFilter, Value: name}
}

// After matches messages received on or after the calendar day of t.
func After(t time.Time) Filter {
	return Filter{Type: AfterFilter, Value: t.Format(queryDateFormat)}
}

func ConcatFilters(filters []Filter) string {
	res := make([]string, len(filters))
	for i, filter := range filters {
		res[i] = filter.String()
	}
	return strings.Join(res, " ")
}

// Reference identifies one message in the mail provider.
type Reference string

// Since returns the lower bound of the newsletter window: the day before now.
// The window is a rolling "yesterday" boundary, so it spans 24 to 48 hours
// depending on the time of day.
func Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -1)
}
