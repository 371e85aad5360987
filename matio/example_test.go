package matio_test

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/meshweave/intrimesh/matio"
)

// ExampleWriteDense writes a small dense matrix in the text format.
func ExampleWriteDense() {
	m := mat.NewDense(2, 2, []float64{1, 0.5, 0, -3})
	_ = matio.WriteDense(os.Stdout, m)
	// Output:
	// # dense 2 2
	// 1 0.5
	// 0 -3
}

// ExampleReadSparse parses 1-indexed triplets back into a sparse matrix.
func ExampleReadSparse() {
	const in = "# sparse 2 3\n1 1 2.5\n2 3 -1\n"
	m, _ := matio.ReadSparse(strings.NewReader(in))
	fmt.Println(m.At(0, 0), m.At(1, 2))
	// Output:
	// 2.5 -1
}
