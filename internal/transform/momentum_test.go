package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimelab/macrostate/internal/dataset"
)

func TestMomentum_HorizonOne(t *testing.T) {
	table := buildTable(t, "level", []float64{10, 11, 9, 12, 15})

	spec := Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"level"}, Horizons: []int{1}}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	d1 := column(t, out, "level_D1M")
	assert.True(t, dataset.IsMissing(d1[0]))
	assert.Equal(t, []float64{1, -2, 3, 3}, d1[1:])
}

func TestMomentum_MultipleHorizons(t *testing.T) {
	table := buildTable(t, "level", []float64{1, 2, 4, 8, 16, 32, 64, 128})

	spec := Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"level"}, Horizons: []int{1, 6}}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"level", "level_D1M", "level_D6M"}, out.Columns())

	d6 := column(t, out, "level_D6M")
	for i := 0; i < 6; i++ {
		assert.True(t, dataset.IsMissing(d6[i]), "row %d", i)
	}
	assert.Equal(t, 64.0-1.0, d6[6])
	assert.Equal(t, 128.0-2.0, d6[7])
}

func TestMomentum_MissingInputPropagates(t *testing.T) {
	table := buildTable(t, "level", []float64{1, dataset.Missing(), 3, 4})

	spec := Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"level"}, Horizons: []int{1}}}
	out, err := spec.Apply(table)
	require.NoError(t, err)

	d1 := column(t, out, "level_D1M")
	assert.True(t, dataset.IsMissing(d1[1]), "current value missing")
	assert.True(t, dataset.IsMissing(d1[2]), "lagged value missing")
	assert.Equal(t, 1.0, d1[3])
}

func TestMomentum_Validation(t *testing.T) {
	table := buildTable(t, "level", []float64{1, 2})

	spec := Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"level"}, Horizons: []int{0}}}
	_, err := spec.Apply(table)
	require.Error(t, err)

	spec = Spec{Kind: KindMomentum, Momentum: &MomentumParams{Horizons: []int{1}}}
	_, err = spec.Apply(table)
	require.Error(t, err)
}

func TestMomentum_UnknownColumn(t *testing.T) {
	table := buildTable(t, "level", []float64{1, 2})

	spec := Spec{Kind: KindMomentum, Momentum: &MomentumParams{Columns: []string{"nope"}, Horizons: []int{1}}}
	_, err := spec.Apply(table)
	var unresolved *dataset.UnresolvedColumnError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "nope", unresolved.Column)
}
