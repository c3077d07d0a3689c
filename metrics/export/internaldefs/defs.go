package internaldefs

import (
	goJose "github.com/MrEthical07/goJose"
)

// CounterDef defines a public type used by goJose APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goJose.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goJose APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goJose.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the token engine.
var CounterDefs = []CounterDef{
	{ID: goJose.MetricSignSuccess, Name: "gojose_sign_success_total", Help: "Successfully signed tokens."},
	{ID: goJose.MetricSignFailure, Name: "gojose_sign_failure_total", Help: "Failed sign operations."},
	{ID: goJose.MetricDecodeSuccess, Name: "gojose_decode_success_total", Help: "Successfully decoded and verified tokens."},
	{ID: goJose.MetricDecodeFailure, Name: "gojose_decode_failure_total", Help: "Rejected tokens, any failure category."},
	{ID: goJose.MetricUnknownAlgorithm, Name: "gojose_unknown_algorithm_total", Help: "Tokens naming an algorithm with no registered verification key."},
	{ID: goJose.MetricUnknownKeyID, Name: "gojose_unknown_key_id_total", Help: "Tokens whose key id matched no registered key."},
	{ID: goJose.MetricSignatureRejected, Name: "gojose_signature_rejected_total", Help: "Tokens with a known key but an invalid signature."},
	{ID: goJose.MetricEmbeddedChainRejected, Name: "gojose_embedded_chain_rejected_total", Help: "Embedded x5c chains that failed trust validation."},
}

// HistogramDefs is an exported constant or variable used by the token engine.
var HistogramDefs = []HistogramDef{
	{ID: goJose.MetricDecodeLatency, Name: "gojose_decode_latency_seconds", Help: "Decode latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the token engine.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.0025",
	"0.005",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the token engine.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_0025",
	"0_005",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
