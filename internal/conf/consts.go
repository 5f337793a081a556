// conf/consts.go hard coded constants
package conf

const (
	SampleRate  = 16000 // Sample rate of the captured audio in Hz
	BitDepth    = 32    // Bit depth of the captured audio
	NumChannels = 1     // Number of capture channels (mono microphone)

	// DefaultFrameSamples is the per-frame sample count of one acquisition
	// cycle (32 ms at 16 kHz).
	DefaultFrameSamples = 512
)
