package commands

import (
	"sync"

	"github.com/mobile-next/hidsynth/hid"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

var (
	genMu     sync.Mutex
	genConfig hid.Config
	generator *hid.Generator
)

// Configure stores the generator configuration used on first dispatch.
// It should be called once at application startup (CLI init or server
// start) before any command runs.
func Configure(cfg hid.Config) {
	genMu.Lock()
	defer genMu.Unlock()
	genConfig = cfg
}

// SetGenerator installs an already-built generator, replacing any lazy
// instance. Used by tests and by the server to share one instance.
func SetGenerator(g *hid.Generator) {
	genMu.Lock()
	defer genMu.Unlock()
	if generator != nil && generator != g {
		generator.Close()
	}
	generator = g
}

// ActiveGenerator returns the process-wide generator, creating it from
// the stored configuration on first use.
func ActiveGenerator() *hid.Generator {
	genMu.Lock()
	defer genMu.Unlock()
	if generator == nil {
		generator = hid.NewGenerator(genConfig)
	}
	return generator
}

// Shutdown closes the generator if one was created.
func Shutdown() {
	genMu.Lock()
	defer genMu.Unlock()
	if generator != nil {
		generator.Close()
		generator = nil
	}
}
