package generator

import (
	"log"
	"math/rand"
	"time"
)

const balancePositions = 4

// Balancer redistributes which option index holds the correct answer across
// a multiple-choice batch, so that models with a positional habit (always
// answering "A") do not produce a detectable pattern. Swaps move the option
// text together with the index, so each question's correct answer text is
// never changed.
type Balancer struct {
	rng *rand.Rand
}

// NewBalancer returns a balancer driven by the given random source; pass nil
// for a time-seeded one. Traversal order is randomized per call, so callers
// that need a reproducible order inject their own source.
func NewBalancer(rng *rand.Rand) *Balancer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Balancer{rng: rng}
}

// Balance mutates the batch in place and returns how many questions were
// changed. Batches with fewer than 2 questions pass through unchanged.
// Questions with fewer than 2 options or an out-of-range index are left
// untouched and excluded from the tally.
func (b *Balancer) Balance(questions []*Question) int {
	if len(questions) < 2 {
		return 0
	}

	counts := make([]int, balancePositions)
	for _, q := range questions {
		if !tallyable(q) {
			log.Printf("Skipping invalid question in balance: %d options, correctAnswer %d", len(q.Options), q.CorrectAnswer)
			continue
		}
		counts[q.CorrectAnswer]++
	}

	// Fair share: no position may hold more than floor(N/4)+1 answers.
	ceiling := len(questions)/balancePositions + 1
	balanced := true
	for _, c := range counts {
		if c > ceiling {
			balanced = false
			break
		}
	}
	if balanced {
		return 0
	}

	// Even split, remainder assigned to the lowest positions first.
	targets := make([]int, balancePositions)
	base := len(questions) / balancePositions
	remainder := len(questions) % balancePositions
	for pos := range targets {
		targets[pos] = base
		if pos < remainder {
			targets[pos]++
		}
	}

	order := b.rng.Perm(len(questions))

	swapped := 0
	for _, i := range order {
		q := questions[i]
		if !tallyable(q) {
			continue
		}

		current := q.CorrectAnswer
		if counts[current] <= targets[current] {
			continue
		}

		next := pickUnderfilled(counts, targets, len(q.Options))
		if next < 0 || next == current || next >= len(q.Options) || current >= len(q.Options) {
			continue
		}

		q.Options[current], q.Options[next] = q.Options[next], q.Options[current]
		q.CorrectAnswer = next
		counts[current]--
		counts[next]++
		swapped++

		if withinTargets(counts, targets) {
			break
		}
	}

	return swapped
}

func tallyable(q *Question) bool {
	return len(q.Options) >= 2 &&
		q.CorrectAnswer >= 0 &&
		q.CorrectAnswer < len(q.Options) &&
		q.CorrectAnswer < balancePositions
}

// pickUnderfilled returns the most under-filled position that exists in an
// option array of the given length, or -1 when every reachable position is
// already at target.
func pickUnderfilled(counts, targets []int, optionCount int) int {
	best := -1
	for pos := 0; pos < balancePositions && pos < optionCount; pos++ {
		if counts[pos] >= targets[pos] {
			continue
		}
		if best < 0 || counts[pos] < counts[best] {
			best = pos
		}
	}
	return best
}

func withinTargets(counts, targets []int) bool {
	for pos := range counts {
		if counts[pos] > targets[pos] {
			return false
		}
	}
	return true
}
