// Package audio holds the byte-level helpers of the audio pipeline: decoding
// base64 payloads and converting between 16-bit PCM and float samples.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecode is returned when an audio payload cannot be decoded.
var ErrDecode = errors.New("audio decode failed")

// DecodeBase64 decodes standard, padded base64 text into raw bytes.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// EncodeBase64 is the inverse of DecodeBase64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
