package matio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// WriteSparse writes m to w in the sparse text format: a "# sparse <rows>
// <cols>" header followed by one 1-indexed "<i> <j> <value>" triplet per
// structural non-zero. Matrices implementing sparse.Sparser are enumerated
// through DoNonZero; anything else is scanned densely with zero entries
// skipped.
func WriteSparse(w io.Writer, m mat.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrWrite)
	}

	bw := bufio.NewWriter(w)
	rows, cols := m.Dims()
	if _, err := fmt.Fprintf(bw, "# sparse %d %d\n", rows, cols); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	var werr error
	emit := func(i, j int, v float64) {
		if werr != nil {
			return
		}
		if _, err := fmt.Fprintf(bw, "%d %d %.16g\n", i+1, j+1, v); err != nil {
			werr = err
		}
	}
	if s, ok := m.(sparse.Sparser); ok {
		s.DoNonZero(emit)
	} else {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if v := m.At(i, j); v != 0 {
					emit(i, j, v)
				}
			}
		}
	}
	if werr != nil {
		return fmt.Errorf("%w: %v", ErrWrite, werr)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}

// ReadSparse parses a sparse text matrix from r. Triplets repeated for the
// same entry are summed.
func ReadSparse(r io.Reader) (*sparse.COO, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	rows, cols, err := readHeader(sc, "sparse")
	if err != nil {
		return nil, err
	}

	coo := sparse.NewCOO(rows, cols, nil, nil, nil)
	line := 1
	for {
		fields, err := nextLine(sc)
		if err == io.EOF {
			// The triplet list runs to the end of the input.
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want \"i j value\"", ErrFormat, line)
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		if i < 1 || i > rows || j < 1 || j > cols {
			return nil, fmt.Errorf("%w: line %d: index (%d, %d) outside %d×%d", ErrFormat, line, i, j, rows, cols)
		}
		coo.Set(i-1, j-1, v)
	}

	return coo, nil
}

// SaveSparse writes m to the file at path in the sparse text format.
func SaveSparse(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := WriteSparse(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return nil
}
