package pipeline

import (
	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/layout/hierarchy"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the chart of o for the requested view. This is the
// unified entry point for producing serializable layout data.
//
// Both views include the zoom that fits the chart into the viewport.
func GenerateLayout(o *org.Organization, opts Options) (chart.Chart, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Chart{}, err
	}
	if opts.View == chart.ViewFunctional {
		return generateFunctional(o, opts), nil
	}
	return generateHierarchical(o, opts), nil
}

// generateHierarchical lays out director, managers by craft and developers
// under their manager.
func generateHierarchical(o *org.Organization, opts Options) chart.Chart {
	res := hierarchy.Compute(o.Director, o.People)
	if len(res.Unassigned) > 0 {
		opts.Logger.Warn("developers without a known manager are not drawn", "count", len(res.Unassigned))
	}
	return chart.Hierarchical(o, res, opts.Viewport())
}

// generateFunctional groups people into squad frames. Options are already
// validated, so the strategy parses.
func generateFunctional(o *org.Organization, opts Options) chart.Chart {
	strategy, _ := squads.ParseStrategy(opts.Strategy)
	res := squads.Compute(o.Squads, o.People, squads.Options{
		RowThreshold:  opts.RowThreshold,
		ViewportWidth: opts.ViewportWidth,
		Strategy:      strategy,
	})
	opts.Logger.Debug("grouped squads", "mode", res.Mode, "columns", res.Columns, "ungrouped", len(res.Ungrouped))
	return chart.Functional(o, res, strategy, opts.Viewport())
}
