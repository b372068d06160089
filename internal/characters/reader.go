package characters

import (
	"github.com/arcanum-games/parlor/internal/attr"
)

// Reader is the player-progression entity: the tarot reader whose
// skills, reputation and ethics drive story branching.
type Reader struct {
	Name string `json:"name"`

	Empathy          attr.Attribute `json:"empathy"`
	Insight          attr.Attribute `json:"insight"`
	Competence       attr.Attribute `json:"competence"`
	MysticalAffinity attr.Attribute `json:"mystical_affinity"`
	Reputation       attr.Attribute `json:"reputation"`
	Manipulation     attr.Attribute `json:"manipulation"`
	Corruption       attr.Attribute `json:"corruption"`

	Experience        int `json:"experience"`
	Money             int `json:"money"`
	SessionsCompleted int `json:"sessions_completed"`

	HasShop                 bool `json:"has_shop"`
	AdvancedSpreadsUnlocked bool `json:"advanced_spreads_unlocked"`

	Achievements map[string]bool `json:"achievements"`
	// Artifacts is append-only; duplicates are allowed by design.
	Artifacts []string `json:"artifacts"`
}

// NewReader creates a fresh reader at the start of a playthrough.
func NewReader(name string) *Reader {
	return &Reader{
		Name:             name,
		Empathy:          attr.New(3, 0, 10),
		Insight:          attr.New(3, 0, 10),
		Competence:       attr.New(2, 0, 10),
		MysticalAffinity: attr.New(1, 0, 10),
		Reputation:       attr.New(0, -10, 10),
		Manipulation:     attr.New(0, 0, 5),
		Corruption:       attr.New(0, 0, 5),
		Achievements:     make(map[string]bool),
	}
}

// AddExperience adds progression points. Experience only grows.
func (r *Reader) AddExperience(points int) {
	if points > 0 {
		r.Experience += points
	}
}

// AddMoney adjusts money, flooring at zero.
func (r *Reader) AddMoney(amount int) {
	r.Money += amount
	if r.Money < 0 {
		r.Money = 0
	}
}

// CompleteSession increments the completed-session counter.
func (r *Reader) CompleteSession() {
	r.SessionsCompleted++
}

// GrantAchievement records an achievement id. Idempotent.
func (r *Reader) GrantAchievement(id string) {
	r.Achievements[id] = true
}

// HasAchievement checks achievement membership.
func (r *Reader) HasAchievement(id string) bool {
	return r.Achievements[id]
}

// AddArtifact appends an artifact id to the collection.
func (r *Reader) AddArtifact(id string) {
	r.Artifacts = append(r.Artifacts, id)
}

// DominantSkill returns the highest of the four skill attributes.
// Ties resolve in the order empathy, insight, competence, mystical.
func (r *Reader) DominantSkill() string {
	best, bestName := r.Empathy.Value, "empathy"
	if r.Insight.Value > best {
		best, bestName = r.Insight.Value, "insight"
	}
	if r.Competence.Value > best {
		best, bestName = r.Competence.Value, "competence"
	}
	if r.MysticalAffinity.Value > best {
		bestName = "mystical_affinity"
	}
	return bestName
}

// Level returns the progression tier derived from experience.
func (r *Reader) Level() string {
	switch {
	case r.Experience < 100:
		return "Novice"
	case r.Experience < 500:
		return "Apprentice"
	case r.Experience < 1000:
		return "Adept"
	default:
		return "Master"
	}
}

// CompetenceTier buckets the competence attribute for narrative checks.
func (r *Reader) CompetenceTier() string {
	switch {
	case r.Competence.Value <= 2:
		return "fumbling"
	case r.Competence.Value <= 5:
		return "capable"
	case r.Competence.Value <= 8:
		return "skilled"
	default:
		return "masterful"
	}
}

// ReputationTier buckets reputation for narrative checks.
func (r *Reader) ReputationTier() string {
	switch {
	case r.Reputation.Value <= -6:
		return "notorious"
	case r.Reputation.Value < 0:
		return "distrusted"
	case r.Reputation.Value < 4:
		return "unknown"
	case r.Reputation.Value < 8:
		return "respected"
	default:
		return "renowned"
	}
}

// IsManipulative reports whether manipulation has become a habit.
func (r *Reader) IsManipulative() bool {
	return r.Manipulation.Value >= 3
}

// IsCorrupted reports whether corruption has taken hold.
func (r *Reader) IsCorrupted() bool {
	return r.Corruption.Value >= 3
}
