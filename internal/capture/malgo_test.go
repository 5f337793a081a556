package capture

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/marvin-go/internal/conf"
	"github.com/tphakala/marvin-go/internal/wakecore"
)

func TestNewMalgoSourceDefaults(t *testing.T) {
	t.Parallel()

	source, err := NewMalgoSource(Config{Channel: wakecore.ChannelLeft}, nil)
	require.NoError(t, err)

	format := source.Format()
	assert.Equal(t, conf.SampleRate, format.SampleRate)
	assert.Equal(t, conf.BitDepth, format.BitDepth)
	assert.Equal(t, wakecore.ChannelLeft, format.Channel)
	assert.Equal(t, conf.DefaultFrameSamples, source.FrameSamples())
}

func TestNewMalgoSourceRejectsNegativeConfig(t *testing.T) {
	t.Parallel()

	_, err := NewMalgoSource(Config{SampleRate: -1}, nil)
	assert.Error(t, err)
}

func TestReadFrameRequiresRunningSource(t *testing.T) {
	t.Parallel()

	source, err := NewMalgoSource(Config{}, nil)
	require.NoError(t, err)

	_, err = source.ReadFrame(make([]int32, source.FrameSamples()))
	assert.Error(t, err)
}

// TestDataCallbackAssemblesFrames drives the malgo data callback directly
// with synthetic PCM and verifies frame assembly, publication and signaling.
func TestDataCallbackAssemblesFrames(t *testing.T) {
	t.Parallel()

	const frameSamples = 8
	source, err := NewMalgoSource(Config{FrameSamples: frameSamples}, nil)
	require.NoError(t, err)
	source.notifier = wakecore.NewNotifier()

	encode := func(samples []int32) []byte {
		buf := make([]byte, len(samples)*4)
		for i, s := range samples {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(s))
		}
		return buf
	}

	// half a frame: nothing published yet
	first := []int32{1, 2, 3, 4}
	source.onReceiveFrames(nil, encode(first), uint32(len(first)))
	dst := make([]int32, frameSamples)
	assert.Zero(t, source.exchange.ReadLatest(dst))

	// second half completes the frame
	second := []int32{5, 6, -7, -8}
	source.onReceiveFrames(nil, encode(second), uint32(len(second)))

	require.Equal(t, frameSamples, source.exchange.ReadLatest(dst))
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, -7, -8}, dst)
	assert.EqualValues(t, 1, source.notifier.Await(0))
}

func TestDecodeDeviceID(t *testing.T) {
	t.Parallel()

	// hex-encoded "hw:0" padded with nulls, as malgo reports ALSA IDs
	assert.Equal(t, "hw:0", decodeDeviceID("68773a300000"))
	assert.Equal(t, "not-hex", decodeDeviceID("not-hex"))
}
