package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

// Template tokens replaced by BuildRangeURI.
const (
	tokenBegin = "[BEGIN]"
	tokenEnd   = "[END]"
)

// BuildRangeURI substitutes the begin and end dates into a query template,
// replacing each token exactly once. Both dates must be ISO calendar dates
// (YYYY-MM-DD); no begin<=end ordering check is performed, callers are
// responsible for supplying a sane range.
func BuildRangeURI(template, begin, end string) (string, error) {
	if _, err := time.Parse(sst.DateLayout, begin); err != nil {
		return "", fmt.Errorf("%w: begin date %q", sst.ErrInvalidDateFormat, begin)
	}
	if _, err := time.Parse(sst.DateLayout, end); err != nil {
		return "", fmt.Errorf("%w: end date %q", sst.ErrInvalidDateFormat, end)
	}

	uri := strings.Replace(template, tokenBegin, begin, 1)
	uri = strings.Replace(uri, tokenEnd, end, 1)
	return uri, nil
}
