package services

import (
	"errors"
	"math/rand"
)

var (
	// ErrTooFewParticipants means the roster cannot support a draw: with
	// fewer than 2 people nobody can gift anyone but themselves.
	ErrTooFewParticipants = errors.New("at least 2 participants are required for a draw")

	// ErrDrawFailed means the sampling loop exhausted its attempt budget
	// without finding a valid assignment. For any real roster this is
	// astronomically unlikely (each shuffle succeeds with probability
	// around 1/e), so hitting it points at a broken roster.
	ErrDrawFailed = errors.New("could not generate a valid assignment")
)

const DefaultDrawMaxAttempts = 20000

// GenerateAssignments maps every phone to the phone of the person they must
// gift, such that nobody is assigned to themselves and everybody is assigned
// to exactly one giver. Sampling is shuffle-and-check over full permutations:
// not uniform over derangements, but "no self-match" is the only fairness
// requirement here.
func GenerateAssignments(phones []string, maxAttempts int) (map[string]string, error) {
	items := make([]string, 0, len(phones))
	for _, p := range phones {
		if p != "" {
			items = append(items, p)
		}
	}
	if len(items) < 2 {
		return nil, ErrTooFewParticipants
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultDrawMaxAttempts
	}

	shuffled := make([]string, len(items))
	copy(shuffled, items)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		valid := true
		for i := range items {
			if items[i] == shuffled[i] {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}

		assignments := make(map[string]string, len(items))
		for i := range items {
			assignments[items[i]] = shuffled[i]
		}
		return assignments, nil
	}

	return nil, ErrDrawFailed
}
