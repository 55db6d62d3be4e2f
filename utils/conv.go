package utils

import (
	"bytes"

	"golang.org/x/text/transform"

	"github.com/mogaika/animplayer/config"
)

// BytesToString decodes a fixed-width, zero-terminated archive name field
// using the configured charmap.
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		panic(err)
	}

	return string(s)
}

// StringToBytesBuffer encodes a name into a fixed-width zero-padded field,
// truncating when it does not fit.
func StringToBytesBuffer(s string, bufSize int) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	if len(bs) >= bufSize {
		r[bufSize-1] = 0
	}
	return r
}
