// Package sampling provides deterministic and system-entropy sources of
// random bytes for basis generation and tests.
package sampling

import (
	"crypto/rand"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// PRNG is a source of random bytes.
type PRNG interface {
	io.Reader
}

// SystemPRNG reads from the operating system entropy pool.
type SystemPRNG struct{}

// NewSystemPRNG returns a PRNG backed by crypto/rand.
func NewSystemPRNG() *SystemPRNG {
	return &SystemPRNG{}
}

func (*SystemPRNG) Read(sum []byte) (int, error) {
	return rand.Read(sum)
}

// KeyedPRNG deterministically generates a sequence of random bytes from a
// key using the blake2b extendable-output function. Two instances with
// the same key produce the same stream. Not safe for concurrent use.
type KeyedPRNG struct {
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a deterministic PRNG seeded with key. A nil key
// is treated as empty.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	prng := &KeyedPRNG{key: append([]byte(nil), key...)}
	var err error
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// NewSeededPRNG derives a deterministic PRNG from a textual label and a
// seed, hashing label and seed together so that distinct labels yield
// independent streams.
func NewSeededPRNG(label string, seed []byte) (*KeyedPRNG, error) {
	hasher := blake3.New()
	if _, err := hasher.Write([]byte(label)); err != nil {
		return nil, err
	}
	if _, err := hasher.Write(seed); err != nil {
		return nil, err
	}
	return NewKeyedPRNG(hasher.Sum(nil)[:32])
}

// Key returns a copy of the key that seeded the PRNG.
func (prng *KeyedPRNG) Key() []byte {
	return append([]byte(nil), prng.key...)
}

// Read fills sum with the next bytes of the stream.
func (prng *KeyedPRNG) Read(sum []byte) (int, error) {
	return prng.xof.Read(sum)
}

// Reset rewinds the stream to its beginning.
func (prng *KeyedPRNG) Reset() {
	prng.xof.Reset()
}
