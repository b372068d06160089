package tarot

import "strings"

// CoreMeaning is one orientation branch of a card's core meaning.
type CoreMeaning struct {
	Essence       string   `json:"essence"`
	Keywords      []string `json:"keywords"`
	Psychological string   `json:"psychological"`
	Spiritual     string   `json:"spiritual"`
	Practical     string   `json:"practical"`
	Shadow        string   `json:"shadow"`
}

// MeaningDoc is a per-card meaning document. Position interpretations
// are keyed by dot-path segments with {upright, reversed} string pairs
// at the leaves.
type MeaningDoc struct {
	CoreMeanings struct {
		Upright  CoreMeaning `json:"upright"`
		Reversed CoreMeaning `json:"reversed"`
	} `json:"core_meanings"`
	PositionInterpretations map[string]any `json:"position_interpretations"`
}

// Core returns the core meaning branch for the given orientation key.
func (d *MeaningDoc) Core(orientation string) CoreMeaning {
	if orientation == "reversed" {
		return d.CoreMeanings.Reversed
	}
	return d.CoreMeanings.Upright
}

// PositionMeaning walks a dot-separated mapping path (e.g.
// "temporal_positions.past") into the interpretation tree and returns
// the text for the given orientation. Any missing segment or non-object
// intermediate yields "".
func (d *MeaningDoc) PositionMeaning(ragMapping, orientation string) string {
	if d == nil || d.PositionInterpretations == nil || ragMapping == "" {
		return ""
	}

	var node any = d.PositionInterpretations
	for _, part := range strings.Split(ragMapping, ".") {
		obj, ok := node.(map[string]any)
		if !ok {
			return ""
		}
		node = obj[part]
	}

	leaf, ok := node.(map[string]any)
	if !ok {
		return ""
	}
	text, _ := leaf[orientation].(string)
	return text
}
