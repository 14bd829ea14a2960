package cube

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnknownQuarter is the grouping key for rows whose sale date was absent or
// unparseable. It is a valid cube dimension value, not a dropped row, and is
// rendered as the empty/undefined marker on output.
const UnknownQuarter = ""

// dateLayouts are the accepted sale-date formats, tried in order. Upstream
// feeds are standardized to ISO dates by the prep jobs, but raw warehouses
// also show up with timestamps, US-style and dotted-European dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

// parseDate tries each known layout in order.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Quarter is an orderable year+quarter period.
type Quarter struct {
	Year int
	Q    int // 1..4
}

// QuarterOf buckets a date into its calendar quarter.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// String renders the period label, e.g. "2024Q1".
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

// index maps the quarter onto a single orderable integer.
func (q Quarter) index() int { return q.Year*4 + q.Q - 1 }

// Before reports whether q is chronologically before o.
func (q Quarter) Before(o Quarter) bool { return q.index() < o.index() }

// ParseQuarter parses a "YYYYQn" label. The unknown-quarter marker and any
// malformed label fail the parse; callers fall back to lexical ordering.
func ParseQuarter(s string) (Quarter, bool) {
	i := strings.IndexByte(s, 'Q')
	if i <= 0 || i == len(s)-1 {
		return Quarter{}, false
	}
	year, err := strconv.Atoi(s[:i])
	if err != nil {
		return Quarter{}, false
	}
	qn, err := strconv.Atoi(s[i+1:])
	if err != nil || qn < 1 || qn > 4 {
		return Quarter{}, false
	}
	return Quarter{Year: year, Q: qn}, true
}
