package questionbank

import "math/rand/v2"

// Sample picks up to n questions from tier uniformly at random without
// replacement. A short tier yields all of its questions, shuffled. The
// bank is not modified.
func (b Bank) Sample(rng *rand.Rand, tier Tier, n int) []Question {
	pool := b[tier]
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}

	idx := rng.Perm(len(pool))[:n]
	out := make([]Question, n)
	for i, j := range idx {
		q := pool[j].Clone()
		q.Tier = tier
		out[i] = q
	}
	return out
}
