package matio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// WriteDense writes m to w in the dense text format: a "# dense <rows>
// <cols>" header followed by one row per line.
func WriteDense(w io.Writer, m mat.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrWrite)
	}

	bw := bufio.NewWriter(w)
	rows, cols := m.Dims()
	if _, err := fmt.Fprintf(bw, "# dense %d %d\n", rows, cols); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("%w: %v", ErrWrite, err)
				}
			}
			if _, err := fmt.Fprintf(bw, "%.16g", m.At(i, j)); err != nil {
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

// ReadDense parses a dense text matrix from r.
func ReadDense(r io.Reader) (*mat.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	rows, cols, err := readHeader(sc, "dense")
	if err != nil {
		return nil, err
	}

	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		fields, err := nextLine(sc)
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %d rows, want %d", ErrFormat, i, rows)
		}
		if err != nil {
			return nil, err
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrFormat, i+1, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, i+1, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(rows, cols, data), nil
}

// SaveDense writes m to the file at path in the dense text format.
func SaveDense(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := WriteDense(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return nil
}

// readHeader consumes the "# <kind> <rows> <cols>" header line.
func readHeader(sc *bufio.Scanner, kind string) (rows, cols int, err error) {
	fields, err := nextLine(sc)
	if err == io.EOF {
		return 0, 0, fmt.Errorf("%w: empty input", ErrFormat)
	}
	if err != nil {
		return 0, 0, err
	}
	if len(fields) != 4 || fields[0] != "#" || fields[1] != kind {
		return 0, 0, fmt.Errorf("%w: want header %q", ErrFormat, "# "+kind+" <rows> <cols>")
	}
	rows, err = strconv.Atoi(fields[2])
	if err != nil || rows < 0 {
		return 0, 0, fmt.Errorf("%w: rows %q", ErrFormat, fields[2])
	}
	cols, err = strconv.Atoi(fields[3])
	if err != nil || cols < 0 {
		return 0, 0, fmt.Errorf("%w: cols %q", ErrFormat, fields[3])
	}

	return rows, cols, nil
}

// nextLine returns the fields of the next non-blank line, or io.EOF at a
// clean end of input.
func nextLine(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		return fields, nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	return nil, io.EOF
}
