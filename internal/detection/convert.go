package detection

import (
	"encoding/binary"
)

const bytesPerSample = 4 // 32-bit samples

// samplesToBytes encodes samples as little-endian 32-bit PCM into dst,
// growing dst as needed, and returns the encoded slice.
func samplesToBytes(samples []int32, dst []byte) []byte {
	need := len(samples) * bytesPerSample
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*bytesPerSample:], uint32(s))
	}
	return dst
}

// bytesToSamples decodes little-endian 32-bit PCM. Trailing bytes short of a
// full sample are ignored.
func bytesToSamples(data []byte) []int32 {
	n := len(data) / bytesPerSample
	samples := make([]int32, n)
	for i := 0; i < n; i++ {
		samples[i] = int32(binary.LittleEndian.Uint32(data[i*bytesPerSample:]))
	}
	return samples
}
