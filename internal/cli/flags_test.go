package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"StoreBackend", flags.StoreBackend, "file"},
		{"Timeout", flags.Timeout, 30 * time.Second},
		{"BreakerFailures", flags.BreakerFailures, 5},
		{"From", flags.From, "auto"},
		{"Profile", flags.Profile, "translation"},
		{"To", flags.To, ""},
		{"Provider", flags.Provider, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if flags.Verbose {
		t.Error("Verbose should default to false")
	}
}
