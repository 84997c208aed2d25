package synth

import "errors"

// Sentinel errors
var (
	ErrInvalidEnvelope = errors.New("invalid envelope")
	ErrUnknownWaveform = errors.New("unknown waveform")
)
