package characters

import (
	"fmt"

	"github.com/arcanum-games/parlor/internal/attr"
)

// Kind tags a client variant. Shared behavior dispatches on the core
// fields; variant-specific threshold reactions are looked up by kind.
type Kind string

const (
	KindGeneric Kind = "generic"
	KindNyx     Kind = "nyx"
	KindChen    Kind = "chen"
)

// Client is a reading client. The core fields are shared by every
// variant; Nyx and Chen carry extra state in their own records.
type Client struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Kind Kind   `json:"kind"`

	Trust    attr.Attribute `json:"trust"`
	Comfort  attr.Attribute `json:"comfort"`
	Openness attr.Attribute `json:"openness"`

	Topics map[string]bool `json:"topics"`
	// SeenCards keeps first-seen order; inserts are idempotent.
	SeenCards []string `json:"seen_cards"`
	Sessions  int      `json:"sessions"`

	Nyx  *NyxState  `json:"nyx,omitempty"`
	Chen *ChenState `json:"chen,omitempty"`
}

// NyxState is the extra state for the shaman-hacker client.
type NyxState struct {
	ShamanicAwakening attr.Attribute `json:"shamanic_awakening"`
	KitsuneSuspicion  attr.Attribute `json:"kitsune_suspicion"`
	CyberGlitches     attr.Attribute `json:"cyber_glitches"`
}

// ChenState is the extra state for the widower client, including the
// conversation flags feeding his session-three branch.
type ChenState struct {
	Clarity attr.Attribute `json:"clarity"`

	DiscussedGrief     bool `json:"discussed_grief"`
	DiscussedCulture   bool `json:"discussed_culture"`
	DiscussedGuilt     bool `json:"discussed_guilt"`
	DiscussedPractical bool `json:"discussed_practical"`
	DiscussedFear      bool `json:"discussed_fear"`
	DiscussedHouse     bool `json:"discussed_house"`
	DiscussedDaughter  bool `json:"discussed_daughter"`
	MentionedDavidName bool `json:"mentioned_david_name"`

	SessionTwoQuality string `json:"session_two_quality"`
	// SessionThreePath holds the resolved branch; once set it is never
	// redrawn.
	SessionThreePath string `json:"session_three_path"`
}

// NewClient creates a generic client at first encounter.
func NewClient(name string, age int) *Client {
	return &Client{
		Name:     name,
		Age:      age,
		Kind:     KindGeneric,
		Trust:    attr.New(50, 0, 100),
		Comfort:  attr.New(50, 0, 100),
		Openness: attr.New(0, -10, 10),
		Topics:   make(map[string]bool),
	}
}

// NewNyx creates the Nyx client.
func NewNyx() *Client {
	c := NewClient("Nyx", 27)
	c.Kind = KindNyx
	c.Nyx = &NyxState{
		ShamanicAwakening: attr.New(0, 0, 5),
		KitsuneSuspicion:  attr.New(0, 0, 5),
		CyberGlitches:     attr.New(0, 0, 5),
	}
	return c
}

// NewChen creates the Chen client.
func NewChen() *Client {
	c := NewClient("Mr. Chen", 68)
	c.Kind = KindChen
	c.Chen = &ChenState{
		Clarity: attr.New(0, 0, 10),
	}
	return c
}

// DiscussTopic records a discussed topic. Idempotent set insert.
func (c *Client) DiscussTopic(id string) {
	c.Topics[id] = true
}

// HasDiscussed checks whether a topic has come up.
func (c *Client) HasDiscussed(id string) bool {
	return c.Topics[id]
}

// SeeCard records a card the client has seen, preserving first-seen
// order and dropping duplicates.
func (c *Client) SeeCard(id string) {
	for _, seen := range c.SeenCards {
		if seen == id {
			return
		}
	}
	c.SeenCards = append(c.SeenCards, id)
}

// StartSession increments the session counter.
func (c *Client) StartSession() {
	c.Sessions++
}

// AddTrust adjusts trust within bounds and returns the new value.
func (c *Client) AddTrust(amount int) int {
	return c.Trust.Apply(amount)
}

// AddComfort adjusts comfort within bounds and returns the new value.
func (c *Client) AddComfort(amount int) int {
	return c.Comfort.Apply(amount)
}

// AddOpenness adjusts openness within bounds and returns the new value.
func (c *Client) AddOpenness(amount int) int {
	return c.Openness.Apply(amount)
}

// TrustDescription buckets trust for narrative text.
func (c *Client) TrustDescription() string {
	switch {
	case c.Trust.Value > 75:
		return "deeply trusts you"
	case c.Trust.Value > 50:
		return "trusts you"
	case c.Trust.Value > 25:
		return "is uncertain"
	default:
		return "is skeptical"
	}
}

// thresholdReaction maps an upward crossing to a topic that gets
// recorded as discussed. Reactions are topic discussions by contract,
// never free-form callbacks.
type thresholdReaction struct {
	threshold int
	topic     string
}

// reactionTable keys variant threshold reactions by kind and track.
var reactionTable = map[Kind]map[string][]thresholdReaction{
	KindNyx: {
		"shamanic_awakening": {
			{3, "spiritual_breakthrough"},
			{5, "shamanic_integration"},
		},
		"kitsune_suspicion": {
			{4, "corporate_danger"},
			{5, "cover_blown"},
		},
		"cyber_glitches": {
			{3, "spirit_interference"},
			{5, "chrome_rejection"},
		},
	},
	KindChen: {
		"clarity": {
			{5, "moment_of_clarity"},
			{8, "full_acceptance"},
		},
	},
}

// applyTrack applies a delta to a variant track attribute, then records
// a topic discussion for every threshold crossed on the way up. Topics
// fire once per ascent: the before/after snapshot is compared around
// this single mutation, never re-inspected later.
func (c *Client) applyTrack(a *attr.Attribute, track string, delta int) int {
	old := a.Value
	val := a.Apply(delta)
	for _, reaction := range reactionTable[c.Kind][track] {
		if attr.Crossed(old, val, reaction.threshold) {
			c.DiscussTopic(reaction.topic)
		}
	}
	return val
}

// AddShamanicAwakening advances Nyx's awakening track.
func (c *Client) AddShamanicAwakening(n int) (int, error) {
	if c.Nyx == nil {
		return 0, fmt.Errorf("client %s has no shamanic awakening track", c.Name)
	}
	return c.applyTrack(&c.Nyx.ShamanicAwakening, "shamanic_awakening", n), nil
}

// AddKitsuneSuspicion advances Nyx's corporate suspicion track.
func (c *Client) AddKitsuneSuspicion(n int) (int, error) {
	if c.Nyx == nil {
		return 0, fmt.Errorf("client %s has no kitsune suspicion track", c.Name)
	}
	return c.applyTrack(&c.Nyx.KitsuneSuspicion, "kitsune_suspicion", n), nil
}

// AddCyberGlitches advances Nyx's augment interference track.
func (c *Client) AddCyberGlitches(n int) (int, error) {
	if c.Nyx == nil {
		return 0, fmt.Errorf("client %s has no cyber glitch track", c.Name)
	}
	return c.applyTrack(&c.Nyx.CyberGlitches, "cyber_glitches", n), nil
}

// AddClarity advances Chen's clarity track.
func (c *Client) AddClarity(n int) (int, error) {
	if c.Chen == nil {
		return 0, fmt.Errorf("client %s has no clarity track", c.Name)
	}
	return c.applyTrack(&c.Chen.Clarity, "clarity", n), nil
}

// AwakeningStage buckets Nyx's awakening for narrative checks.
func (c *Client) AwakeningStage() string {
	if c.Nyx == nil {
		return ""
	}
	switch v := c.Nyx.ShamanicAwakening.Value; {
	case v == 0:
		return "dormant"
	case v <= 2:
		return "stirring"
	case v <= 4:
		return "awakened"
	default:
		return "integrated"
	}
}

// DangerLevel buckets Nyx's corporate exposure.
func (c *Client) DangerLevel() string {
	if c.Nyx == nil {
		return ""
	}
	switch v := c.Nyx.KitsuneSuspicion.Value; {
	case v <= 1:
		return "safe"
	case v <= 3:
		return "watched"
	case v == 4:
		return "hunted"
	default:
		return "burned"
	}
}

// IsAlly reports whether the client has become an ally of the reader.
func (c *Client) IsAlly() bool {
	return c.Trust.Value >= 75
}
