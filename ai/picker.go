package ai

// Picker decides which scored Choice wins a tick. A Picker returns the
// chosen *Choice itself, never a copy: the Thinker compares the pick against
// the previously running Choice by identity to decide whether to switch
// actions. Returning nil means nothing qualified.
type Picker interface {
	Pick(choices []*Choice) *Choice
}

// FirstToScore picks the first Choice, in declaration order, whose score is
// at or above Threshold.
type FirstToScore struct {
	Threshold float64
}

func (p FirstToScore) Pick(choices []*Choice) *Choice {
	for _, c := range choices {
		if c.score >= p.Threshold {
			return c
		}
	}
	return nil
}

// Highest picks the Choice with the maximum score, as long as that score is
// at or above Threshold. Exact ties go to the first-declared Choice.
type Highest struct {
	Threshold float64
}

func (p Highest) Pick(choices []*Choice) *Choice {
	var best *Choice
	for _, c := range choices {
		if c.score < p.Threshold {
			continue
		}
		if best == nil || c.score > best.score {
			best = c
		}
	}
	return best
}
