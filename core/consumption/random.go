package consumption

import (
	"math"
	"math/rand"
	"time"
)

// Rand is the source of randomness used by sampling and recurrence.
// Implementations need not be safe for concurrent use.
type Rand interface {
	// Uniform returns a value in [from, to). An empty range yields from.
	Uniform(from, to float64) float64
	// Line returns one of the three fixed lines with equal probability.
	Line() Source
}

type mathRand struct {
	r *rand.Rand
}

// NewRand returns a Rand seeded with seed. A zero seed uses the current time.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &mathRand{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRand) Uniform(from, to float64) float64 {
	if !(to > from) {
		return from
	}
	v := from + m.r.Float64()*(to-from)
	if v >= to {
		v = math.Nextafter(to, from)
	}
	return v
}

func (m *mathRand) Line() Source {
	return fixedLines[m.r.Intn(len(fixedLines))]
}
