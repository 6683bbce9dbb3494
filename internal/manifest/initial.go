package manifest

import "github.com/quantmind-br/assetmanifest/internal/domain"

// InitialProbe reports whether a chunk is initial. ok is false when the
// chunk does not expose the capability the probe looks for.
type InitialProbe func(c domain.Chunk) (initial bool, ok bool)

// ProbeOnlyInitial queries domain.OnlyInitialChunk
func ProbeOnlyInitial(c domain.Chunk) (bool, bool) {
	if oc, ok := c.(domain.OnlyInitialChunk); ok {
		return oc.IsOnlyInitial(), true
	}
	return false, false
}

// ProbeIsInitial queries domain.InitialChunk
func ProbeIsInitial(c domain.Chunk) (bool, bool) {
	if ic, ok := c.(domain.InitialChunk); ok {
		return ic.IsInitial(), true
	}
	return false, false
}

// ProbeInitialFlag queries domain.InitialFlagChunk
func ProbeInitialFlag(c domain.Chunk) (bool, bool) {
	if fc, ok := c.(domain.InitialFlagChunk); ok {
		return fc.Initial(), true
	}
	return false, false
}

// DefaultInitialProbes returns the probe order used when none is configured
func DefaultInitialProbes() []InitialProbe {
	return []InitialProbe{ProbeOnlyInitial, ProbeIsInitial, ProbeInitialFlag}
}

// IsInitial runs probes in order and returns the first answer. A chunk no
// probe understands is not initial.
func IsInitial(c domain.Chunk, probes []InitialProbe) bool {
	for _, probe := range probes {
		if initial, ok := probe(c); ok {
			return initial
		}
	}
	return false
}
