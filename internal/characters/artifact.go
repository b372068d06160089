package characters

// Artifact is a keepsake earned from a completed client session. Only
// the shape matters to the engine; lore text is content.
type Artifact struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Lore            string `json:"lore"`
	OriginSession   string `json:"origin_session"`
	OriginCharacter string `json:"origin_character,omitempty"`
	Rarity          string `json:"rarity"`

	PhysicalProperties string `json:"physical_properties,omitempty"`
	SpiritualResonance string `json:"spiritual_resonance,omitempty"`
	CulturalContext    string `json:"cultural_context,omitempty"`
	ReaderEffect       string `json:"reader_effect,omitempty"`
}

var artifacts = map[string]Artifact{
	"razor_lucky_token": {
		ID:              "razor_lucky_token",
		Name:            "Razor's Lucky Token",
		Description:     "A small metal token engraved with crude runes.",
		Lore:            "Carried through three wars and a dozen shadow runs. The cards saved his life, so now his luck is yours.",
		OriginSession:   "nyx_session_3a",
		OriginCharacter: "Razor",
		Rarity:          "rare",
	},
	"spirit_data_core": {
		ID:              "spirit_data_core",
		Name:            "Spirit-Touched Data Core",
		Description:     "A data chip that glows faintly, and not with electricity.",
		Lore:            "One of the freed spirits encoded itself here as gratitude. Magic and chrome united.",
		OriginSession:   "nyx_session_3a",
		OriginCharacter: "Freed Spirit",
		Rarity:          "legendary",
	},
	"spirit_guidance_charm": {
		ID:              "spirit_guidance_charm",
		Name:            "Spirit Guidance Charm",
		Description:     "A small carved wooden charm, warm to the touch.",
		Lore:            "Left on a shrine after the heist. Gratitude made manifest; protection for the one who freed them.",
		OriginSession:   "nyx_session_3b",
		OriginCharacter: "Freed Spirits",
		Rarity:          "rare",
	},
	"wanderers_compass": {
		ID:                 "wanderers_compass",
		Name:               "Wanderer's Compass",
		Description:        "A tarnished brass compass whose needle doesn't point north.",
		Lore:               "It points toward meaning, not direction. For the ghost who chose neither crew nor corpo.",
		OriginSession:      "nyx_session_3b",
		OriginCharacter:    "Unknown",
		Rarity:             "legendary",
		SpiritualResonance: "High. Responds to awakened presence.",
	},
	"chens_teacup": {
		ID:              "chens_teacup",
		Name:            "Chen's Porcelain Teacup",
		Description:     "A hairline-cracked teacup from a wedding set for two.",
		Lore:            "He kept the set for forty years. He wants you to have one half, because sets for one are just cups.",
		OriginSession:   "chen_session_3",
		OriginCharacter: "Mr. Chen",
		Rarity:          "uncommon",
		ReaderEffect:    "Empathy +1. Understand what remains after loss.",
	},
}

// ArtifactByID retrieves an artifact by id.
func ArtifactByID(id string) (Artifact, bool) {
	a, ok := artifacts[id]
	return a, ok
}

// AllArtifacts returns the artifact registry ids.
func AllArtifacts() []string {
	ids := make([]string, 0, len(artifacts))
	for id := range artifacts {
		ids = append(ids, id)
	}
	return ids
}
