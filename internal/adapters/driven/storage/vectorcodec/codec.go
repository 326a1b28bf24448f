// Package vectorcodec encodes embedding vectors for the document stores.
//
// A vector is stored as consecutive little-endian IEEE-754 float32 values,
// four bytes per component. Decoding an encoded vector returns the exact
// original values, including NaN payloads and signed zeros.
package vectorcodec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode converts a vector to its byte form.
func Encode(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Decode converts bytes produced by Encode back to a vector.
func Decode(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob has %d bytes, not a multiple of 4", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
