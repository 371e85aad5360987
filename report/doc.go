// Package report collects run statistics as an ordered key-value table and
// writes them as two-line TSV: one header line of keys, one line of values.
// Keys keep their first-insertion order, so columns line up across runs of
// the same pipeline and files can be concatenated into a spreadsheet.
package report
