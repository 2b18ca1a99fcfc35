package program

import (
	"math/rand"
	"strings"
	"sync"
)

// SetsPerExercise is fixed for every prescription.
const SetsPerExercise = 3

// Rand picks rep-range labels. It never influences exercise selection.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a goroutine-safe seeded Rand.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// FirstChoice always picks the first option. Tests use it to pin labels.
type FirstChoice struct{}

func (FirstChoice) Intn(int) int { return 0 }

// RepRangeOptions returns the candidate labels for a goal combination and
// rating. goals is the comma-joined goal key list.
func RepRangeOptions(goals string, rating int) []string {
	high := rating > 75
	stronger := strings.Contains(goals, "get_stronger")
	muscle := strings.Contains(goals, "build_muscle") || strings.Contains(goals, "increase_muscle")
	fatLoss := strings.Contains(goals, "tone_up") || strings.Contains(goals, "fat_loss")

	switch {
	case stronger && high:
		return []string{"5-8", "6-10"}
	case stronger:
		return []string{"6-10", "8-12"}
	case fatLoss:
		return []string{"8-12", "10-14"}
	case muscle:
		return []string{"6-10", "8-12"}
	default:
		return []string{"8-12"}
	}
}

// RepRange picks one label from RepRangeOptions.
func RepRange(goals string, rating int, r Rand) string {
	opts := RepRangeOptions(goals, rating)
	if len(opts) == 1 || r == nil {
		return opts[0]
	}
	return opts[r.Intn(len(opts))]
}

// RestSeconds derives rest from the canonical rating.
func RestSeconds(rating int) int {
	switch {
	case rating > 80:
		return 120
	case rating >= 50:
		return 90
	default:
		return 60
	}
}
