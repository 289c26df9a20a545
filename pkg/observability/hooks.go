// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document decoding, encoding, and file access.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hook arguments are plain strings (document kind, version tag, failure
// kind) so this package imports nothing from the serialization layer.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCodecHooks(&myCodecHooks{})
//	    observability.SetFileHooks(&myFileHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Codec().OnDecodeAttempt("project", "v4")
//	// ... decode ...
//	observability.Codec().OnDecodeSuccess("project", "v4", duration)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from the versioned codecs and the fallback resolver.
type CodecHooks interface {
	// OnDecodeAttempt fires before a single version's decoder runs.
	OnDecodeAttempt(document, version string)

	// OnDecodeFailure fires when a version's decoder rejects the input.
	// kind is "structural" or "schema".
	OnDecodeFailure(document, version, kind string, err error)

	// OnDecodeSuccess fires once per resolution, for the winning version.
	OnDecodeSuccess(document, version string, duration time.Duration)

	// OnDecodeExhausted fires when every known version failed.
	OnDecodeExhausted(document string, attempts int, duration time.Duration)

	// OnEncode fires after the current version's encoder ran.
	OnEncode(document, version string, size int, err error)
}

// =============================================================================
// File Hooks
// =============================================================================

// FileHooks receives events from file import and export.
type FileHooks interface {
	// OnFileRead records a document read from disk.
	OnFileRead(path string, size int, err error)

	// OnFileWrite records a document written to disk.
	OnFileWrite(path string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnDecodeAttempt(string, string)                {}
func (NoopCodecHooks) OnDecodeFailure(string, string, string, error) {}
func (NoopCodecHooks) OnDecodeSuccess(string, string, time.Duration) {}
func (NoopCodecHooks) OnDecodeExhausted(string, int, time.Duration)  {}
func (NoopCodecHooks) OnEncode(string, string, int, error)           {}

// NoopFileHooks is a no-op implementation of FileHooks.
type NoopFileHooks struct{}

func (NoopFileHooks) OnFileRead(string, int, error)  {}
func (NoopFileHooks) OnFileWrite(string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	codecHooks CodecHooks = NoopCodecHooks{}
	fileHooks  FileHooks  = NoopFileHooks{}
	hooksMu    sync.RWMutex
)

// SetCodecHooks registers custom codec hooks.
// This should be called once at application startup before any decode operations.
func SetCodecHooks(h CodecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		codecHooks = h
	}
}

// SetFileHooks registers custom file hooks.
// This should be called once at application startup before any file operations.
func SetFileHooks(h FileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fileHooks = h
	}
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return codecHooks
}

// File returns the registered file hooks.
func File() FileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fileHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	codecHooks = NoopCodecHooks{}
	fileHooks = NoopFileHooks{}
}
