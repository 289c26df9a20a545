package serialization

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphfile/pkg/observability"
)

// Resolution is the outcome of a successful [Resolve].
type Resolution[T any] struct {
	Value   T
	Version string
	// Failures holds the rejections of newer versions tried before Version.
	Failures []*DecodeFailure
}

// Resolve decodes raw with the first codec in t that accepts it.
//
// Codecs are tried in table order, newest first, and the first success is
// returned without trying the rest. Each rejection is classified, logged
// with its version tag through the default logger, and reported to the
// registered codec hooks. If every codec rejects raw, Resolve returns an
// *ExhaustedVersionsError listing every rejection in attempt order.
//
// Resolve keeps no state between calls: the same raw input always resolves
// to the same version and the same value.
func Resolve[T any](t Table[T], raw []byte) (Resolution[T], error) {
	hooks := observability.Codec()
	logger := log.Default().With("document", string(t.Kind))
	start := time.Now()

	var failures []*DecodeFailure
	for _, c := range t.Entries {
		version := c.Version()
		hooks.OnDecodeAttempt(string(t.Kind), version)

		v, err := c.Decode(raw)
		if err == nil {
			hooks.OnDecodeSuccess(string(t.Kind), version, time.Since(start))
			logger.Debug("decoded document", "version", version, "attempts", len(failures)+1)
			return Resolution[T]{Value: v, Version: version, Failures: failures}, nil
		}

		f := newDecodeFailure(t.Kind, version, err)
		failures = append(failures, f)
		reportFailure(logger, f)
		hooks.OnDecodeFailure(string(t.Kind), version, f.Kind.String(), err)
	}

	hooks.OnDecodeExhausted(string(t.Kind), len(failures), time.Since(start))
	exhausted := &ExhaustedVersionsError{Document: t.Kind, Failures: failures}
	logger.Error(exhausted.Error(), "attempts", len(failures))
	return Resolution[T]{}, exhausted
}

// reportFailure logs one rejected attempt. Structural failures suggest a
// corrupt file and are logged as errors; schema failures are the normal cost
// of reading an older version.
func reportFailure(logger *log.Logger, f *DecodeFailure) {
	if f.Kind == FailureStructural {
		logger.Error("malformed document", "version", f.Version, "kind", f.Kind.String(), "err", f.Err)
		return
	}
	logger.Warn("failed to deserialize", "version", f.Version, "kind", f.Kind.String(), "err", f.Err)
}
