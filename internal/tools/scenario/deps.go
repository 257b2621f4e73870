package scenario

import (
	"github.com/ethvoyager95/quickswap-core/internal/report"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	processor *script.Processor
	world     *script.World
	recorder  *report.Recorder
}
