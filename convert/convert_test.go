// SPDX-License-Identifier: MIT

package convert_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/foodweb/adjacency"
	"github.com/katalvlaran/foodweb/convert"
	"github.com/katalvlaran/foodweb/extract"
	"github.com/katalvlaran/foodweb/matfile"
	"github.com/katalvlaran/foodweb/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainResult(t *testing.T) *adjacency.Result {
	t.Helper()
	res, err := adjacency.Build([]adjacency.Interaction{
		{Consumer: "A", Resource: "B"},
		{Consumer: "B", Resource: "C"},
		{Consumer: "A", Resource: "B"},
	})
	require.NoError(t, err)
	return res
}

func TestPipeTableToCSV(t *testing.T) {
	t.Parallel()
	in := strings.Join([]string{
		"Experiment: Clmown1",
		"|==========|==========|==========|",
		"| Iteration | AUC | Time |",
		"|==========|==========|==========|",
		"| 1 | 0.81 | 00:00:01 |",
		"| 2 | 0.79 | 00:00:02 |",
		"done",
	}, "\n")

	var out bytes.Buffer
	n, err := convert.PipeTableToCSV(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Iteration,AUC,Time\n1,0.81,00:00:01\n2,0.79,00:00:02\n", out.String())

	_, err = convert.PipeTableToCSV(strings.NewReader("no table here\n"), &out)
	require.ErrorIs(t, err, convert.ErrNoPipeHeader)
}

func TestPipeTableToCSV_LongRow(t *testing.T) {
	t.Parallel()
	wide := strings.Repeat("a", 200_000)
	in := "| Iteration | Note |\n| 1 | " + wide + " |\n| 2 | short |\n"

	var out bytes.Buffer
	n, err := convert.PipeTableToCSV(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Iteration,Note\n1,"+wide+"\n2,short\n", out.String())
}

func TestAdjacencyCSV(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, convert.AdjacencyCSV(chainResult(t), &out))
	assert.Equal(t,
		",A,B,C\n"+
			"A,0.0,1.0,0.0\n"+
			"B,0.0,0.0,1.0\n"+
			"C,0.0,0.0,0.0\n", out.String())
}

func TestWebToMAT(t *testing.T) {
	t.Parallel()
	at := matfile.WithCreated(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	var sparse, classified bytes.Buffer
	require.NoError(t, convert.WebToMAT(chainResult(t), &sparse, convert.Sparse, at))
	require.NoError(t, convert.WebToMAT(chainResult(t), &classified, convert.Classified, at))

	for _, b := range [][]byte{sparse.Bytes(), classified.Bytes()} {
		require.Greater(t, len(b), 128)
		assert.Equal(t, []byte("IM"), b[126:128])
		assert.Equal(t, uint32(14), binary.LittleEndian.Uint32(b[128:]), "first element is a matrix")
		assert.Zero(t, len(b)%8)
	}
	assert.Contains(t, classified.String(), "classification")
	assert.Contains(t, classified.String(), "species")
	assert.NotContains(t, sparse.String(), "species")

	err := convert.WebToMAT(chainResult(t), &bytes.Buffer{}, convert.MATMode("csv"))
	require.ErrorIs(t, err, convert.ErrUnknownMode)
}

func TestParseMATMode(t *testing.T) {
	t.Parallel()
	m, err := convert.ParseMATMode("classified")
	require.NoError(t, err)
	assert.Equal(t, convert.Classified, m)
	_, err = convert.ParseMATMode("dense")
	require.ErrorIs(t, err, convert.ErrUnknownMode)
}

func TestCatalogToMAT(t *testing.T) {
	t.Parallel()
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "mat")
	web := "foodweb.name,con.taxonomy,res.taxonomy\nWeddell Sea,Seal,Cod\nWeddell Sea,Cod,Krill\n"
	require.NoError(t, os.WriteFile(filepath.Join(in, "Weddell_Sea.csv"), []byte(web), 0o644))

	cat := extract.Catalog{{Foodweb: "Weddell Sea"}, {Foodweb: "Ythan Estuary"}}
	n, err := convert.CatalogToMAT(context.Background(), cat, convert.MATJob{
		InDir:       in,
		OutDir:      out,
		Mode:        convert.Sparse,
		Underscores: true,
		Columns:     extract.DefaultOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "missing input skipped")

	b, err := os.ReadFile(filepath.Join(out, "Weddell_Sea.mat"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("MATLAB 5.0 MAT-file")))
	_, err = os.Stat(filepath.Join(out, "Ythan_Estuary.mat"))
	assert.True(t, os.IsNotExist(err))

	_, err = convert.CatalogToMAT(context.Background(), cat, convert.MATJob{OutDir: out, Mode: "x"})
	require.ErrorIs(t, err, convert.ErrUnknownMode)
}

func TestRenameColumns(t *testing.T) {
	t.Parallel()
	tb, err := table.Read(strings.NewReader(
		"foodweb.name,con.taxonomy,con.mass.mean.g.,res.taxonomy,res.mass.mean.g.,latitude\n" +
			"Weddell Sea,Seal,300000,Cod,1500,-70\n" +
			"Weddell Sea,Cod,1500,Krill,0,-70\n"))
	require.NoError(t, err)

	require.NoError(t, convert.RenameColumns(tb, convert.CamelCase))
	assert.Equal(t, []string{
		"foodwebName", "conTaxonomy", "conMassMean", "resTaxonomy", "resMassMean", "latitude", "bodyMassRatio",
	}, tb.Header)
	assert.Equal(t, "200", tb.Rows[0][6])
	assert.Equal(t, "NA", tb.Rows[1][6], "zero resource mass")

	plain := table.New("con.taxonomy", "res.taxonomy")
	require.NoError(t, convert.RenameColumns(plain, convert.CamelCase))
	assert.Equal(t, []string{"conTaxonomy", "resTaxonomy"}, plain.Header)
}
