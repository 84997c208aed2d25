package constant

import "time"

// Control Loop
const (
	// ControlPollInterval is the sleep between key polls
	ControlPollInterval = 1 * time.Millisecond

	// AutoReleaseTimeout is the synthesis-clock time after the last press at which a key is released
	AutoReleaseTimeout = 0.5

	// DefaultVelocity applies to every key press (terminal input carries no velocity)
	DefaultVelocity = 0.7

	// QuitKey ends the control loop
	QuitKey = 'q'

	// KeyCtrlC is the raw-mode byte for Ctrl-C
	KeyCtrlC = 0x03
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "keysynth.log"
)

// Environment variable names
const (
	EnvDevice       = "KEYSYNTH_DEVICE"
	EnvDriver       = "KEYSYNTH_DRIVER"
	EnvSampleRate   = "KEYSYNTH_SAMPLE_RATE"
	EnvChannels     = "KEYSYNTH_CHANNELS"
	EnvFormat       = "KEYSYNTH_FORMAT"
	EnvBlocks       = "KEYSYNTH_BLOCKS"
	EnvBlockSamples = "KEYSYNTH_BLOCK_SAMPLES"
	EnvAllowSilent  = "KEYSYNTH_ALLOW_SILENT"
)
