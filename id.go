package deckdown

import (
	"crypto/rand"
	"fmt"
)

const (
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	idLength   = 21
)

// NewID returns a random URL-safe identifier with the given prefix,
// e.g. NewID("slide") -> "slide_h8fK...". The random part is 21
// characters of base62, roughly 125 bits of entropy, so IDs never
// need a collision check. An empty prefix yields a bare identifier.
func NewID(prefix string) string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("deckdown: random source unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	if prefix == "" {
		return string(buf)
	}
	return prefix + "_" + string(buf)
}
