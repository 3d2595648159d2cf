// Package pkg provides the core libraries for Orgmorph org chart layout.
//
// # Overview
//
// Orgmorph keeps an engineering roster (a director, managers grouped by
// craft, developers, squads and one release train) and lays it out two ways:
// a hierarchical chart that follows reporting lines and a functional chart
// that groups people into squad frames. The pkg directory is organized into
// four main areas:
//
//  1. Domain: [org] (the model), [roster] (edits), [io] (spreadsheets and
//     snapshots)
//  2. Layout: [layout], [layout/hierarchy], [layout/squads], [chart]
//  3. Rendering: [render], [render/sink], [render/nodelink]
//  4. Infrastructure: [pipeline], [store], [cache], [config], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	store snapshot / JSON file / XLSX import
//	         ↓
//	    [roster] package (validated edits, backups)
//	         ↓
//	    [layout/hierarchy] or [layout/squads] (pure geometry)
//	         ↓
//	    [chart] package (positioned cards, connectors, frames, auto-fit zoom)
//	         ↓
//	    [render/sink] (SVG, PDF, PNG) or [render/nodelink] (Graphviz tree)
//
// [pipeline] ties the stages together and caches layouts and artifacts.
//
// # Quick Start
//
//	o := org.Mock(org.MockOptions{})
//
//	opts := pipeline.Options{View: chart.ViewFunctional, Formats: []string{"svg"}}
//	opts.SetLayoutDefaults()
//	opts.SetRenderDefaults()
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, o, opts)
//	svg := res.Artifacts["svg"]
//
// # Main Packages
//
// [org] - Director, Person, Squad, Train and RTE records, name matching,
// validation and pure mutations returning new snapshots.
//
// [roster] - The editing service: add, update and delete people and squads,
// import spreadsheets, replace and restore snapshots. Every change goes
// through a [store].
//
// [store] - Key-value persistence of the snapshot, its backup and the
// display preferences. File, memory, Redis and MongoDB backends.
//
// [io] - XLSX and CSV import and export in the French column layout, JSON
// snapshots, and templates.
//
// [layout] - Card geometry, zoom steps and the auto-fit calculation.
//
// [layout/hierarchy] - Director, craft groups of managers and developer
// columns with orthogonal connectors.
//
// [layout/squads] - Squad frames in a row or an auto-fit grid, and the
// animation stagger strategies.
//
// [chart] - The serialisable result of a layout, shared by every renderer.
//
// [cache] - Layout and artifact cache with file, Redis and null backends.
//
// [pipeline] - Load → layout → render, used by the CLI.
//
// [org]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/org
// [roster]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/roster
// [io]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/io
// [layout]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/layout
// [layout/hierarchy]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/layout/hierarchy
// [layout/squads]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/layout/squads
// [chart]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/chart
// [render]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/orgmorph/pkg/buildinfo
package pkg
