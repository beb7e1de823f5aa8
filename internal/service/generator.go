package service

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// isoLayout matches the millisecond UTC timestamps the records have always
// carried, e.g. 2024-05-01T10:20:30.123Z.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Generator produces the random identifiers, masked numbers and balances of
// the mock banking data. A seeded Generator is deterministic apart from
// uuids.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		rnd: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now: time.Now,
	}
}

func NewSeededGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

func (g *Generator) UUID() string {
	return uuid.New().String()
}

// Token returns n lower-case base-36 characters.
func (g *Generator) Token(n int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[g.rnd.IntN(len(base36))]
	}
	return string(b)
}

func (g *Generator) UpperToken(n int) string {
	return strings.ToUpper(g.Token(n))
}

// IntRange returns a value in [lo, hi].
func (g *Generator) IntRange(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) Now() time.Time {
	return g.now()
}

func (g *Generator) Timestamp() string {
	return g.now().UTC().Format(isoLayout)
}
