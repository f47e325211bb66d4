package aggregation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
)

// ErrUnparseableDate is returned by ParseDate when no known layout matches.
var ErrUnparseableDate = errors.New("unparseable date")

// ParseDate parses a feed's free-form published string into its calendar day.
// RFC 1123 feed dates, ISO 8601 and plain YYYY-MM-DD are all accepted.
// The day is taken in the publisher's own offset; strings without an offset are read as UTC.
func ParseDate(published string) (time.Time, error) {
	s := strings.TrimSpace(published)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseableDate)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, published, err)
	}
	return domain.TruncateDay(t), nil
}
