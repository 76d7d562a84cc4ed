// Package capture loads and saves captured call sets. Two on-disk formats
// are supported: the native capture dump (a JSON array of calls, optionally
// wrapped in an envelope) and HAR 1.2 archives exported by browsers and
// proxies. How the traffic was captured is irrelevant to analysis; this
// package is file plumbing only.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/usestring/trafficspec/pkg/types"
)

// envelope is the native dump format written by Save. Load also accepts a
// bare JSON array of calls.
type envelope struct {
	Calls []types.CapturedCall `json:"calls"`
}

// LoadFile reads captured calls from path, dispatching on file extension:
// .har parses as a HAR archive, anything else as a native dump.
func LoadFile(path string) ([]types.CapturedCall, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".har") {
		return ParseHAR(data)
	}
	return Parse(data)
}

// Parse decodes a native capture dump: either a bare JSON array of calls or
// an envelope object with a "calls" field.
func Parse(data []byte) ([]types.CapturedCall, error) {
	var calls []types.CapturedCall
	if err := json.Unmarshal(data, &calls); err == nil {
		return calls, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing capture dump: %w", err)
	}
	return env.Calls, nil
}

// Save writes calls to path in the native dump format.
func Save(path string, calls []types.CapturedCall) error {
	data, err := json.MarshalIndent(envelope{Calls: calls}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding capture dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing capture file: %w", err)
	}
	return nil
}
