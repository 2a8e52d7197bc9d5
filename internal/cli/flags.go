package cli

import (
	"time"

	"codeberg.org/snonux/dowel/internal/storage"
	"codeberg.org/snonux/dowel/internal/transport"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Verbose bool

	// Storage and transport
	StoreBackend    string
	StoreDir        string
	Timeout         time.Duration
	BreakerFailures int

	// Translation flags
	From      string
	To        string
	Provider  string
	BatchFile string

	// AI flags
	Profile string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		StoreBackend:    storage.BackendFile,
		Timeout:         transport.DefaultTimeout,
		BreakerFailures: transport.DefaultBreakerFailures,
		From:            "auto",
		Profile:         "translation",
	}
}
