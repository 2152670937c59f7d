// SPDX-License-Identifier: MIT

package clean_test

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/foodweb/clean"
	"github.com/katalvlaran/foodweb/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawCSV = "foodweb.name,con.taxonomy,interaction.classification,latitude,sampling.start.year,sampling.end.year\n" +
	"Weddell,Seal,predacious,-70.5,1990,1995.0\n" +
	"Weddell,Cod,predacious,,1991,x\n" +
	"Broad,Stonefly,herbivorous,51.0,NA,2000\n" +
	"Weddell,Seal,predacious,-70.5,1990,1995.0\n" +
	"Broad,,detritivorous,52.0,1999,2001\n"

func TestRun(t *testing.T) {
	t.Parallel()
	tb, err := table.Read(strings.NewReader(rawCSV))
	require.NoError(t, err)

	rep, err := clean.Run(context.Background(), tb, clean.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []clean.ColumnCount{
		{Column: "foodweb.name", Count: 0},
		{Column: "con.taxonomy", Count: 1},
		{Column: "interaction.classification", Count: 0},
		{Column: "latitude", Count: 1},
		{Column: "sampling.start.year", Count: 1},
		{Column: "sampling.end.year", Count: 0},
	}, rep.Missing)
	assert.Equal(t, []string{"latitude", "sampling.start.year"}, rep.Numeric)
	assert.InDelta(t, -9.75, rep.Medians["latitude"], 1e-12)
	assert.InDelta(t, 1990.5, rep.Medians["sampling.start.year"], 1e-12)
	assert.Equal(t, 1, rep.DuplicatesRemoved)
	assert.Equal(t, 0, rep.Outliers["latitude"])
	assert.Equal(t, []string{"detritivorous", "herbivorous", "predacious"}, rep.Classes["interaction.classification"])
	assert.Equal(t, []string{"Cod", "NA", "Seal", "Stonefly"}, rep.Classes["con.taxonomy"])

	assert.Equal(t, "sampling_duration", tb.Header[len(tb.Header)-1])
	assert.Equal(t, [][]string{
		{"Weddell", "2", "2", "-70.5", "1990", "1995", "5"},
		{"Weddell", "0", "2", "-9.75", "1991", "0", "-1991"},
		{"Broad", "3", "1", "51.0", "1990", "2000", "10"},
		{"Broad", "1", "0", "52.0", "1999", "2001", "2"},
	}, tb.Rows)

	assert.Equal(t, "missing=3 numeric=2 duplicates=1 outliers=0 encoded=2", rep.String())
}

func TestRun_AbsentColumnsAreSkipped(t *testing.T) {
	t.Parallel()
	tb, err := table.Read(strings.NewReader("a,b\n1,x\n1,x\n"))
	require.NoError(t, err)

	rep, err := clean.Run(context.Background(), tb, clean.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.DuplicatesRemoved)
	assert.Empty(t, rep.Classes)
	assert.Equal(t, []string{"a", "b"}, tb.Header, "no duration without year columns")

	_, err = clean.Run(context.Background(), nil, clean.DefaultOptions())
	require.ErrorIs(t, err, clean.ErrNilTable)
}

func TestMedian(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2.0, clean.Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, clean.Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(clean.Median(nil)))

	xs := []float64{3, 1}
	clean.Median(xs)
	assert.Equal(t, []float64{3, 1}, xs, "input untouched")
}

func TestBlankOutliers(t *testing.T) {
	t.Parallel()
	tb := table.New("latitude")
	for i := 0; i < 20; i++ {
		require.NoError(t, tb.Append("0"))
	}
	require.NoError(t, tb.Append("100"))
	require.NoError(t, tb.Append("NA"))

	n, err := clean.BlankOutliers(tb, "latitude", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "", tb.Rows[20][0])
	assert.Equal(t, "NA", tb.Rows[21][0], "non-numeric cells untouched")

	_, err = clean.BlankOutliers(tb, "altitude", 3)
	require.ErrorIs(t, err, table.ErrUnknownColumn)
}

func TestLabelEncode(t *testing.T) {
	t.Parallel()
	tb := table.New("kind")
	for _, v := range []string{"b", "a", "c", "a"} {
		require.NoError(t, tb.Append(v))
	}
	classes, err := clean.LabelEncode(tb, "kind")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, classes)

	got, err := tb.Values("kind")
	require.NoError(t, err)
	want := []string{"1", "0", "2", "0"}
	assert.Equal(t, want, got)
	for _, c := range got {
		_, err := strconv.Atoi(c)
		require.NoError(t, err)
	}
}
