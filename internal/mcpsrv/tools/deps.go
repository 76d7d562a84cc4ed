package tools

import (
	"github.com/usestring/trafficspec/internal/analyze"
	"github.com/usestring/trafficspec/internal/capture"
	"github.com/usestring/trafficspec/internal/config"
	"github.com/usestring/trafficspec/pkg/types"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config   *config.Config
	Analyzer *analyze.Analyzer
}

// LoadCalls reads captured calls from a capture or HAR file.
func (d *Deps) LoadCalls(path string) ([]types.CapturedCall, error) {
	return capture.LoadFile(path)
}
