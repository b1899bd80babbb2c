// Package util contains small helpers shared across the application
package util

import (
	"math/rand"
	"time"
	"unsafe"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	letterIdxBits = 6                    // bits needed per letter index
	letterIdxMask = 1<<letterIdxBits - 1 // all 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // letter indices fitting in 63 bits
)

var src = rand.NewSource(time.Now().UnixNano())

// RandStr returns a short random letter string. Request IDs and S3
// key suffixes only need to be unlikely to collide, not secret, so
// this trades crypto randomness for speed.
// Adapted from https://stackoverflow.com/questions/22892120
func RandStr(n int) string {
	b := make([]byte, n)
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(alphabet) {
			b[i] = alphabet[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}
