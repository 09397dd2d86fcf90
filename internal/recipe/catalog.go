package recipe

import (
	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/transform"
)

// Built-in recipe names.
const (
	BaselineZ     = "baseline_z"
	ZPlusMomentum = "z_plus_momentum"
	ChangesOnly   = "changes_only"
	LevelsOnly    = "levels_only"
)

// equityIndexColumn is the growth index compounded from the 1-month
// equity return column; it feeds the drawdown primitive.
const (
	equityIndexColumn    = "SPX_CUM"
	equityDrawdownColumn = "SPX_DD"
)

// Catalog builds the fixed set of built-in recipes from the settings.
// Every recipe starts with the yield-curve slope and ends by dropping
// rows that still carry missing markers, so persisted feature tables are
// dense.
func Catalog(cfg *config.Settings) []Recipe {
	return []Recipe{
		{
			Name:        BaselineZ,
			Description: "yield-curve slope + rolling z-scores on levels",
			Specs:       withCommonSteps(cfg, zscoreSpecs(cfg)),
		},
		{
			Name:        ZPlusMomentum,
			Description: "baseline_z + momentum diffs + equity drawdown",
			Specs: withCommonSteps(cfg, concat(
				equitySpecs(cfg),
				momentumSpecs(cfg),
				zscoreSpecs(cfg),
			)),
		},
		{
			Name:        ChangesOnly,
			Description: "momentum diffs + equity drawdown, no level z-scores",
			Specs: withCommonSteps(cfg, concat(
				equitySpecs(cfg),
				momentumSpecs(cfg),
			)),
		},
		{
			Name:        LevelsOnly,
			Description: "rolling z-scores on levels, no diffs",
			Specs:       withCommonSteps(cfg, zscoreSpecs(cfg)),
		},
	}
}

// NewDefaultRegistry builds the process-wide registry from the built-in
// catalog. Settings are validated at construction, so a failure here is
// a programming error in the catalog itself.
func NewDefaultRegistry(cfg *config.Settings) (*Registry, error) {
	return NewRegistry(Catalog(cfg))
}

func withCommonSteps(cfg *config.Settings, inner []transform.Spec) []transform.Spec {
	specs := make([]transform.Spec, 0, len(inner)+2)
	specs = append(specs, transform.Spec{
		Kind: transform.KindSlope,
		Slope: &transform.SlopeParams{
			Long:  cfg.LongRateColumn,
			Short: cfg.ShortRateColumn,
		},
	})
	specs = append(specs, inner...)
	specs = append(specs, transform.Spec{
		Kind:   transform.KindDropNA,
		DropNA: &transform.DropNAParams{},
	})
	return specs
}

// zscoreSpecs emits one rolling z-score spec per configured column,
// followed by the sign flip for indicators where higher means worse.
func zscoreSpecs(cfg *config.Settings) []transform.Spec {
	specs := make([]transform.Spec, 0, len(cfg.ZScoreColumns)+1)
	for _, col := range cfg.ZScoreColumns {
		specs = append(specs, transform.Spec{
			Kind: transform.KindZScore,
			ZScore: &transform.ZScoreParams{
				Column:     col,
				Window:     cfg.ZScoreWindow,
				MinPeriods: cfg.ZScoreMinPeriods,
			},
		})
	}
	if len(cfg.SignFlipColumns) > 0 {
		specs = append(specs, transform.Spec{
			Kind:     transform.KindSignFlip,
			SignFlip: &transform.SignFlipParams{Columns: cfg.SignFlipColumns},
		})
	}
	return specs
}

// equitySpecs compounds the 1-month equity return into a growth index
// and takes the peak-to-current drawdown on it.
func equitySpecs(cfg *config.Settings) []transform.Spec {
	return []transform.Spec{
		{
			Kind: transform.KindCumReturn,
			CumReturn: &transform.CumReturnParams{
				Column: cfg.EquityReturnColumn,
				Output: equityIndexColumn,
			},
		},
		{
			Kind: transform.KindDrawdown,
			Drawdown: &transform.DrawdownParams{
				Column: equityIndexColumn,
				Output: equityDrawdownColumn,
			},
		},
	}
}

func momentumSpecs(cfg *config.Settings) []transform.Spec {
	return []transform.Spec{
		{
			Kind: transform.KindMomentum,
			Momentum: &transform.MomentumParams{
				Columns:  cfg.DiffColumns,
				Horizons: cfg.DiffHorizons,
			},
		},
	}
}

func concat(groups ...[]transform.Spec) []transform.Spec {
	var out []transform.Spec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
