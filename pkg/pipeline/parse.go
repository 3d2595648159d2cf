package pipeline

import (
	"context"
	"fmt"

	orgio "github.com/matzehuels/orgmorph/pkg/io"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Source provides the stored organisation.
type Source interface {
	Initialize(ctx context.Context) (*org.Organization, error)
}

// Load reads the organisation to chart: the snapshot file named by
// opts.Input when set, otherwise the one held by src.
func Load(ctx context.Context, src Source, opts Options) (*org.Organization, error) {
	if opts.Input != "" {
		o, err := orgio.ImportJSON(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.Input, err)
		}
		return o, nil
	}
	if src == nil {
		return nil, fmt.Errorf("no input file and no store configured")
	}
	return src.Initialize(ctx)
}
