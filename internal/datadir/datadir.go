package datadir

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oceanobs/sst-data-aggregation/internal/sst"
)

var (
	// ErrNotFound is returned when a referenced local resource does not exist.
	ErrNotFound = errors.New("local resource not found")
)

// Dir resolves paths under a caller-supplied root directory. The root is
// created on construction if absent.
type Dir struct {
	root string
}

// New creates a Dir rooted at root, creating the directory if needed.
func New(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("data root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Resolve joins the given segments under the root directory.
func (d *Dir) Resolve(segments ...string) string {
	return filepath.Join(append([]string{d.root}, segments...)...)
}

// Open opens an existing file under the root. A missing file yields
// ErrNotFound.
func (d *Dir) Open(segments ...string) (*os.File, error) {
	path := d.Resolve(segments...)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

// WriteTableCSV writes a table's rows to a CSV file under the root and
// returns the resolved path. Daily tables use the canonical summary columns;
// hourly tables write timestamped readings. Absent values are written as
// empty cells.
func (d *Dir) WriteTableCSV(table sst.SSTTable, segments ...string) (string, error) {
	path := d.Resolve(segments...)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if table.Granularity == sst.GranularityDaily {
		w.Write([]string{"collection_date", "temp_min", "temp_max", "temp_avg"})
		for _, s := range table.Summaries {
			w.Write([]string{
				s.Date.Format(sst.DateLayout),
				formatTemp(s.Min),
				formatTemp(s.Max),
				formatTemp(s.Mean),
			})
		}
	} else {
		w.Write([]string{"timestamp", "temp"})
		for _, r := range table.Readings {
			w.Write([]string{r.Timestamp.Format("2006-01-02T15:04:05Z07:00"), formatTemp(r.Temp)})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func formatTemp(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
