package audio

import "encoding/binary"

// DecodePCM16 converts little-endian 16-bit PCM bytes into samples.
// A trailing odd byte is dropped.
func DecodePCM16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return samples
}

// EncodePCM16 converts samples into little-endian 16-bit PCM bytes.
func EncodePCM16(samples []int16) []byte {
	pcm := make([]byte, 2*len(samples))
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(sample))
	}
	return pcm
}
