package service

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/noxss/roster-migrate/internal/config"
	"github.com/noxss/roster-migrate/internal/model"
)

const (
	idPrefix   = "_"
	idLength   = 9
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// Bytes at or above this value are redrawn so every symbol is equally likely.
	idRejectFrom = 256 - 256%len(idAlphabet)

	maxIDAttempts = 64
)

// ErrIDSpaceExhausted is returned when no unused id could be produced.
var ErrIDSpaceExhausted = errors.New("could not produce an unused section id")

// idNamespace scopes deterministic ids to this dataset.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("noxss-school/metadata/turmas"))

// IDGenerator issues ClassSection ids that are unique within one run.
type IDGenerator interface {
	// Next returns a fresh id for the section identified by key.
	Next(key model.CanonicalKey) (string, error)
	// Reserve marks an id already present in the data as taken.
	Reserve(id string)
}

// NewIDGenerator picks the generator for an ID_STRATEGY value.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case config.IDStrategyRandom, "":
		return NewRandomIDGenerator(nil), nil
	case config.IDStrategyDeterministic:
		return NewDeterministicIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

// issuedSet is the per-run registry shared by both generators.
type issuedSet map[string]struct{}

func (s issuedSet) Reserve(id string) {
	s[id] = struct{}{}
}

func (s issuedSet) claim(id string) bool {
	if _, taken := s[id]; taken {
		return false
	}
	s[id] = struct{}{}
	return true
}

// RandomIDGenerator draws "_" followed by 9 symbols from [a-z0-9].
type RandomIDGenerator struct {
	entropy *bufio.Reader
	issuedSet
}

// NewRandomIDGenerator reads randomness from entropy, or crypto/rand when nil.
func NewRandomIDGenerator(entropy io.Reader) *RandomIDGenerator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &RandomIDGenerator{
		entropy:   bufio.NewReader(entropy),
		issuedSet: make(issuedSet),
	}
}

// Next ignores key; ids carry no information about the section.
func (g *RandomIDGenerator) Next(model.CanonicalKey) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := g.draw()
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		if g.claim(id) {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (g *RandomIDGenerator) draw() (string, error) {
	out := make([]byte, 0, len(idPrefix)+idLength)
	out = append(out, idPrefix...)
	for len(out) < cap(out) {
		b, err := g.entropy.ReadByte()
		if err != nil {
			return "", err
		}
		if int(b) >= idRejectFrom {
			continue
		}
		out = append(out, idAlphabet[int(b)%len(idAlphabet)])
	}
	return string(out), nil
}

// DeterministicIDGenerator derives ids from the CanonicalKey with a name
// based UUID, so the same input always migrates to the same ids.
type DeterministicIDGenerator struct {
	issuedSet
}

// NewDeterministicIDGenerator creates a DeterministicIDGenerator.
func NewDeterministicIDGenerator() *DeterministicIDGenerator {
	return &DeterministicIDGenerator{issuedSet: make(issuedSet)}
}

// Next hashes key; a collision re-hashes with an attempt suffix.
func (g *DeterministicIDGenerator) Next(key model.CanonicalKey) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		name := string(key)
		if attempt > 0 {
			name = fmt.Sprintf("%s#%d", key, attempt)
		}
		u := uuid.NewSHA1(idNamespace, []byte(name))
		if id := encodeID(binary.BigEndian.Uint64(u[:8])); g.claim(id) {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// encodeID writes the low base-36 digits of n in the id alphabet.
func encodeID(n uint64) string {
	out := make([]byte, len(idPrefix)+idLength)
	copy(out, idPrefix)
	base := uint64(len(idAlphabet))
	for i := len(out) - 1; i >= len(idPrefix); i-- {
		out[i] = idAlphabet[n%base]
		n /= base
	}
	return string(out)
}
