package audio

import (
	"encoding/binary"
	"math"
)

// clip saturates v to [-1,1]; NaN becomes silence
func clip(v float64) float64 {
	if v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// putSample writes one clipped sample at b[0:format.Bytes()]
func putSample(b []byte, format SampleFormat, v float64) {
	if format == FormatF32 {
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		return
	}
	binary.LittleEndian.PutUint16(b, uint16(int16(v*32767)))
}

// getSample decodes one sample at b back to [-1,1]
func getSample(b []byte, format SampleFormat) float64 {
	if format == FormatF32 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return float64(int16(binary.LittleEndian.Uint16(b))) / 32767
}
