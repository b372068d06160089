package characters

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

const (
	// PathFinalPush is Chen's crisis branch for session three.
	PathFinalPush = "final_push"
	// PathAcceptance is Chen's resolution branch for session three.
	PathAcceptance = "acceptance"
)

// DetermineSessionThreePath resolves Chen's session-three narrative
// fork by weighted random draw. Both branches start at weight 50 and
// the conversation flags from earlier sessions tilt the scales. The
// result is stored on first call; later calls return it without
// redrawing.
func (c *Client) DetermineSessionThreePath(rng RNG) string {
	if c.Chen == nil {
		return ""
	}
	if c.Chen.SessionThreePath != "" {
		return c.Chen.SessionThreePath
	}

	crisis, acceptance := SessionThreeWeights(c.Chen)

	roll := rng.Intn(crisis+acceptance) + 1
	path := PathAcceptance
	if roll <= crisis {
		path = PathFinalPush
	}

	c.Chen.SessionThreePath = path
	return path
}

// SessionThreeWeights computes the crisis and acceptance weights for
// Chen's session-three fork from his conversation flags.
func SessionThreeWeights(s *ChenState) (crisis, acceptance int) {
	crisis, acceptance = 50, 50

	if s.DiscussedGrief {
		crisis += 15
	}
	if s.DiscussedCulture {
		acceptance += 15
	}
	if s.DiscussedGuilt {
		crisis += 10
	}
	if s.DiscussedPractical {
		acceptance += 10
	}
	if s.DiscussedFear {
		acceptance += 15
	}
	if s.DiscussedHouse {
		acceptance += 10
	}
	if s.DiscussedDaughter {
		crisis += 20
	}
	if s.MentionedDavidName {
		crisis += 5
	}

	switch s.SessionTwoQuality {
	case "profound":
		acceptance += 15
	case "adequate":
		crisis += 15
	}

	return crisis, acceptance
}
