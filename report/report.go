package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Conventional keys for triangulation pipeline runs. Using shared names
// keeps concatenated reports column-compatible.
const (
	KeyVerticesIn      = "nVerticesIn"
	KeyVerticesOut     = "nVerticesOut"
	KeyDelaunayBefore  = "isDelaunayBefore"
	KeyDelaunayAfter   = "isDelaunayAfter"
	KeyMinAngleBefore  = "minAngleBefore"
	KeyMinAngleAfter   = "minAngleAfter"
	KeyFlipTime        = "flipTime"
	KeyRefineTime      = "refineTime"
	KeySubdivisionTime = "subdivisionTime"
	KeySubdivVerts     = "nSubdivVerts"
)

// ErrWrite is returned when a report cannot be written out.
var ErrWrite = errors.New("report: write failed")

// Report is an ordered key-value table of run statistics. The zero value is
// ready to use. Setting an existing key overwrites its value in place; new
// keys append.
type Report struct {
	keys   []string
	values map[string]string
}

// New returns an empty report.
func New() *Report { return &Report{} }

func (r *Report) set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// SetInt records an integer statistic.
func (r *Report) SetInt(key string, v int) { r.set(key, strconv.Itoa(v)) }

// SetFloat records a floating-point statistic at full precision.
func (r *Report) SetFloat(key string, v float64) {
	r.set(key, strconv.FormatFloat(v, 'g', -1, 64))
}

// SetBool records a boolean statistic.
func (r *Report) SetBool(key string, v bool) { r.set(key, strconv.FormatBool(v)) }

// SetDuration records an elapsed time in seconds.
func (r *Report) SetDuration(key string, d time.Duration) {
	r.SetFloat(key, d.Seconds())
}

// SetString records an arbitrary statistic. Tabs and newlines in the value
// are replaced with spaces to keep the TSV intact.
func (r *Report) SetString(key, value string) {
	clean := make([]rune, 0, len(value))
	for _, c := range value {
		if c == '\t' || c == '\n' || c == '\r' {
			c = ' '
		}
		clean = append(clean, c)
	}
	r.set(key, string(clean))
}

// Len returns the number of recorded statistics.
func (r *Report) Len() int { return len(r.keys) }

// Keys returns the recorded keys in insertion order.
func (r *Report) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)

	return out
}

// Get returns the recorded value for key, if any.
func (r *Report) Get(key string) (string, bool) {
	v, ok := r.values[key]

	return v, ok
}

// WriteTSV writes the report as two tab-separated lines: keys, then values.
func (r *Report) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for line := 0; line < 2; line++ {
		for i, key := range r.keys {
			if i > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return fmt.Errorf("%w: %v", ErrWrite, err)
				}
			}
			field := key
			if line == 1 {
				field = r.values[key]
			}
			if _, err := bw.WriteString(field); err != nil {
				return fmt.Errorf("%w: %v", ErrWrite, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

// SaveTSV writes the report to the file at path.
func (r *Report) SaveTSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := r.WriteTSV(f); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return nil
}
