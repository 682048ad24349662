package brain

import (
	"math/rand"
	"sync"
	"time"
)

// Short association chains used as inspiration sparks.
var sparkTemplates = []string{
	"Gravity → Apple → Newton",
	"particle → wave → duality",
	"thought → word → action",
}

// InspirationEngine supplies randomness and occasional creativity sparks.
type InspirationEngine struct {
	mu        sync.Mutex
	rng       *rand.Rand
	lastSpark string
}

func NewInspirationEngine() *InspirationEngine {
	return newInspirationEngine(time.Now().UnixNano())
}

func newInspirationEngine(seed int64) *InspirationEngine {
	return &InspirationEngine{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a random value in [0,1).
func (e *InspirationEngine) Float() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// Spark returns a short inspiration line with ~30% probability, "" otherwise.
func (e *InspirationEngine) Spark() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rng.Float64() > 0.3 {
		return ""
	}
	idx := int(e.rng.Float64()*float64(len(sparkTemplates))) % len(sparkTemplates)
	e.lastSpark = sparkTemplates[idx]
	return e.lastSpark
}

// Active reports whether a spark has fired this session.
func (e *InspirationEngine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSpark != ""
}
