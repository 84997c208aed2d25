package constant

import "time"

// Audio Hardware Settings
const (
	AudioDevice       = "default"
	AudioSampleRate   = 44100
	AudioChannels     = 1
	AudioBlockCount   = 8
	AudioBlockSamples = 512

	// AudioMaxChannels bounds interleaved output width
	AudioMaxChannels = 8
)

// Render Engine
const (
	// MaxRecoverAttempts is the number of sink recoveries tried for one block before the stream is declared dead
	MaxRecoverAttempts = 3

	// MaxPipeRestarts bounds consecutive player process restarts for the pipe sink
	MaxPipeRestarts = 3

	// PipeLatency is the buffering requested from external players
	PipeLatency = 50 * time.Millisecond
)

// Envelope (ADSR) in seconds, sustain as level
const (
	EnvelopeAttack  = 0.01
	EnvelopeDecay   = 0.1
	EnvelopeSustain = 0.7
	EnvelopeRelease = 0.3
)

// Mixing
const (
	// MixHeadroom scales the per-note-count normalized mix
	MixHeadroom = 0.5

	// DetuneRatio is the chorus offset of the two detuned fundamentals (0.1%)
	DetuneRatio = 0.001
)
