package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimelab/macrostate/internal/dataset"
)

func TestSlope_RowWiseSpread(t *testing.T) {
	table := buildTable(t, "US10Y", []float64{3.0, 3.1, 2.9})
	table, err := table.WithColumn("US2Y", []float64{2.0, 2.5, 3.4})
	require.NoError(t, err)

	spec := Spec{Kind: KindSlope, Slope: &SlopeParams{Long: "US10Y", Short: "US2Y"}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	slope := column(t, out, "YC_SLOPE")
	assert.InDelta(t, 1.0, slope[0], 1e-12)
	assert.InDelta(t, 0.6, slope[1], 1e-12)
	assert.InDelta(t, -0.5, slope[2], 1e-12)
}

func TestSlope_MissingEitherSide(t *testing.T) {
	table := buildTable(t, "US10Y", []float64{3.0, dataset.Missing()})
	table, err := table.WithColumn("US2Y", []float64{dataset.Missing(), 2.0})
	require.NoError(t, err)

	spec := Spec{Kind: KindSlope, Slope: &SlopeParams{Long: "US10Y", Short: "US2Y"}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	slope := column(t, out, "YC_SLOPE")
	assert.True(t, dataset.IsMissing(slope[0]))
	assert.True(t, dataset.IsMissing(slope[1]))
}

func TestSignFlip_NegatesInPlace(t *testing.T) {
	table := buildTable(t, "Unemployment_Z", []float64{1.5, dataset.Missing(), -0.5})

	spec := Spec{Kind: KindSignFlip, SignFlip: &SignFlipParams{Columns: []string{"Unemployment_Z"}}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	flipped := column(t, out, "Unemployment_Z")
	assert.Equal(t, -1.5, flipped[0])
	assert.True(t, dataset.IsMissing(flipped[1]))
	assert.Equal(t, 0.5, flipped[2])

	// No new columns, and the input table still holds the originals.
	assert.Empty(t, spec.Outputs())
	assert.Equal(t, 1.5, column(t, table, "Unemployment_Z")[0])
}

func TestCumReturn_CompoundsLogReturns(t *testing.T) {
	table := buildTable(t, "SPX_RET_1M", []float64{0.1, 0.1, -0.2})

	spec := Spec{Kind: KindCumReturn, CumReturn: &CumReturnParams{Column: "SPX_RET_1M", Output: "SPX_CUM"}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	cum := column(t, out, "SPX_CUM")
	assert.InDelta(t, math.Exp(0.1), cum[0], 1e-12)
	assert.InDelta(t, math.Exp(0.2), cum[1], 1e-12)
	assert.InDelta(t, math.Exp(0.0), cum[2], 1e-12)
}

func TestCumReturn_MissingSkipsAccumulation(t *testing.T) {
	table := buildTable(t, "r", []float64{0.1, dataset.Missing(), 0.1})

	spec := Spec{Kind: KindCumReturn, CumReturn: &CumReturnParams{Column: "r"}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	cum := column(t, out, "r_CUM")
	assert.True(t, dataset.IsMissing(cum[1]))
	assert.InDelta(t, math.Exp(0.2), cum[2], 1e-12)
}

func TestDropNA_RemovesRowsWithMissing(t *testing.T) {
	table := buildTable(t, "a", []float64{1, dataset.Missing(), 3, 4})
	table, err := table.WithColumn("b", []float64{1, 2, dataset.Missing(), 4})
	require.NoError(t, err)

	spec := Spec{Kind: KindDropNA, DropNA: &DropNAParams{}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []float64{1, 4}, column(t, out, "a"))
	assert.Equal(t, []float64{1, 4}, column(t, out, "b"))
}

func TestDropNA_SubsetOnly(t *testing.T) {
	table := buildTable(t, "a", []float64{1, dataset.Missing(), 3})
	table, err := table.WithColumn("b", []float64{dataset.Missing(), 2, 3})
	require.NoError(t, err)

	spec := Spec{Kind: KindDropNA, DropNA: &DropNAParams{Subset: []string{"a"}}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Len())
	b := column(t, out, "b")
	assert.True(t, dataset.IsMissing(b[0]), "missing outside the subset survives")
}

func TestSpec_SourcesAndOutputs(t *testing.T) {
	spec := Spec{Kind: KindZScore, ZScore: &ZScoreParams{Column: "VIX", Window: 60}}
	assert.Equal(t, []string{"VIX"}, spec.Sources())
	assert.Equal(t, []string{"VIX_Z"}, spec.Outputs())

	spec = Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"VIX", "US10Y"}, Horizons: []int{1, 6}}}
	assert.Equal(t, []string{"VIX", "US10Y"}, spec.Sources())
	assert.Equal(t, []string{"VIX_D1M", "VIX_D6M", "US10Y_D1M", "US10Y_D6M"}, spec.Outputs())

	spec = Spec{Kind: KindSlope, Slope: &SlopeParams{Long: "US10Y", Short: "US2Y"}}
	assert.Equal(t, []string{"US10Y", "US2Y"}, spec.Sources())
	assert.Equal(t, []string{"YC_SLOPE"}, spec.Outputs())
}

func TestSpec_ValidateRejectsMissingParams(t *testing.T) {
	for _, kind := range []Kind{KindZScore, KindMomentum, KindDrawdown, KindSlope, KindSignFlip, KindCumReturn, KindDropNA} {
		err := Spec{Kind: kind}.Validate()
		require.Error(t, err, string(kind))
	}
	require.Error(t, Spec{Kind: Kind("bogus")}.Validate())
}
