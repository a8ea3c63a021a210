// Package id generates the daemon's correlation ids.
//
// Ids are prefixed ULIDs: lexicographically sortable, so log lines and
// event-stream payloads for one activation or sweep group naturally, and
// the prefix says what kind of operation an id belongs to at a glance.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ActivationID correlates everything one project activation does.
type ActivationID string

// SweepID correlates the window moves of one recovery sweep.
type SweepID string

// ClientID identifies one WebSocket subscriber.
type ClientID string

const (
	ActivationPrefix = "act"
	SweepPrefix      = "sweep"
	ClientPrefix     = "ws"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewActivationID generates an id for one activation run.
func NewActivationID() ActivationID {
	return ActivationID(Default().GenerateWithPrefix(ActivationPrefix))
}

// NewSweepID generates an id for one recovery sweep.
func NewSweepID() SweepID {
	return SweepID(Default().GenerateWithPrefix(SweepPrefix))
}

// NewClientID generates an id for one event-stream subscriber.
func NewClientID() ClientID {
	return ClientID(Default().GenerateWithPrefix(ClientPrefix))
}

func (id ActivationID) String() string { return string(id) }
func (id SweepID) String() string      { return string(id) }
func (id ClientID) String() string     { return string(id) }

// Timestamp extracts the creation time from a prefixed id.
func Timestamp(id string) (time.Time, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
