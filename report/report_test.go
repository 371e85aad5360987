package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meshweave/intrimesh/report"
)

func TestReport_InsertionOrderAndOverwrite(t *testing.T) {
	r := report.New()
	r.SetInt(report.KeyVerticesIn, 12)
	r.SetBool(report.KeyDelaunayBefore, false)
	r.SetFloat(report.KeyMinAngleBefore, 23.1)
	r.SetInt(report.KeyVerticesIn, 13) // overwrite keeps the column position

	require.Equal(t, 3, r.Len())
	require.Equal(t, []string{
		report.KeyVerticesIn, report.KeyDelaunayBefore, report.KeyMinAngleBefore,
	}, r.Keys())

	v, ok := r.Get(report.KeyVerticesIn)
	require.True(t, ok)
	require.Equal(t, "13", v)

	_, ok = r.Get(report.KeyVerticesOut)
	require.False(t, ok)
}

func TestReport_WriteTSV(t *testing.T) {
	r := report.New()
	r.SetInt(report.KeyVerticesIn, 12)
	r.SetInt(report.KeyVerticesOut, 30)
	r.SetBool(report.KeyDelaunayAfter, true)
	r.SetFloat(report.KeyMinAngleAfter, 31.5)
	r.SetDuration(report.KeyFlipTime, 1500*time.Millisecond)
	r.SetString("backend", "Integer Coordinates")

	var buf bytes.Buffer
	require.NoError(t, r.WriteTSV(&buf))
	require.Equal(t,
		"nVerticesIn\tnVerticesOut\tisDelaunayAfter\tminAngleAfter\tflipTime\tbackend\n"+
			"12\t30\ttrue\t31.5\t1.5\tInteger Coordinates\n",
		buf.String())
}

func TestReport_SetStringSanitizes(t *testing.T) {
	r := report.New()
	r.SetString("note", "a\tb\nc")

	var buf bytes.Buffer
	require.NoError(t, r.WriteTSV(&buf))
	require.Equal(t, "note\na b c\n", buf.String())
}

func TestReport_SaveTSV(t *testing.T) {
	r := report.New()
	r.SetInt(report.KeySubdivVerts, 99)

	path := filepath.Join(t.TempDir(), "stats.tsv")
	require.NoError(t, r.SaveTSV(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "nSubdivVerts\n99\n", string(data))

	err = r.SaveTSV(filepath.Join(t.TempDir(), "missing", "stats.tsv"))
	require.ErrorIs(t, err, report.ErrWrite)
}

func TestReport_Empty(t *testing.T) {
	r := report.New()
	var buf bytes.Buffer
	require.NoError(t, r.WriteTSV(&buf))
	require.Equal(t, "\n\n", buf.String())
}
