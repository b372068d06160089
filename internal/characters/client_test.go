package characters

import "testing"

// TestDiscussTopicIdempotent tests idempotent topic insertion
func TestDiscussTopicIdempotent(t *testing.T) {
	c := NewClient("Ana", 34)

	c.DiscussTopic("grief")
	c.DiscussTopic("grief")

	if !c.HasDiscussed("grief") {
		t.Error("Expected grief to be discussed")
	}
	if len(c.Topics) != 1 {
		t.Errorf("Expected topic set size 1, got %d", len(c.Topics))
	}
	if c.HasDiscussed("money") {
		t.Error("Undiscussed topic reported as discussed")
	}
}

// TestSeeCardOrderedDedup tests ordered idempotent card tracking
func TestSeeCardOrderedDedup(t *testing.T) {
	c := NewClient("Ana", 34)

	c.SeeCard("The Fool")
	c.SeeCard("Death")
	c.SeeCard("The Fool")
	c.SeeCard("The Tower")

	want := []string{"The Fool", "Death", "The Tower"}
	if len(c.SeenCards) != len(want) {
		t.Fatalf("Expected %d seen cards, got %d", len(want), len(c.SeenCards))
	}
	for i, name := range want {
		if c.SeenCards[i] != name {
			t.Errorf("Seen card %d = %q, want %q", i, c.SeenCards[i], name)
		}
	}
}

// TestTrustBoundsAndDescription tests trust clamping and tiers
func TestTrustBoundsAndDescription(t *testing.T) {
	c := NewClient("Ana", 34)

	if c.Trust.Value != 50 {
		t.Errorf("Expected initial trust 50, got %d", c.Trust.Value)
	}
	if got := c.TrustDescription(); got != "is uncertain" {
		t.Errorf("Expected 'is uncertain', got %q", got)
	}

	c.AddTrust(100)
	if c.Trust.Value != 100 {
		t.Errorf("Expected trust clamped to 100, got %d", c.Trust.Value)
	}
	if got := c.TrustDescription(); got != "deeply trusts you" {
		t.Errorf("Expected 'deeply trusts you', got %q", got)
	}

	c.AddTrust(-200)
	if c.Trust.Value != 0 {
		t.Errorf("Expected trust clamped to 0, got %d", c.Trust.Value)
	}
}

// TestNyxShamanicAwakeningEdgeFiring tests that the breakthrough topic
// fires exactly once per ascent
func TestNyxShamanicAwakeningEdgeFiring(t *testing.T) {
	nyx := NewNyx()
	nyx.Nyx.ShamanicAwakening.Set(2)

	if _, err := nyx.AddShamanicAwakening(2); err != nil {
		t.Fatalf("AddShamanicAwakening failed: %v", err)
	}

	if !nyx.HasDiscussed("spiritual_breakthrough") {
		t.Fatal("Expected spiritual_breakthrough after crossing 3")
	}
	if nyx.HasDiscussed("shamanic_integration") {
		t.Error("Integration topic fired before crossing 5")
	}

	// Remove the topic to detect any re-fire, then apply a no-op delta.
	delete(nyx.Topics, "spiritual_breakthrough")
	if _, err := nyx.AddShamanicAwakening(0); err != nil {
		t.Fatalf("AddShamanicAwakening failed: %v", err)
	}
	if nyx.HasDiscussed("spiritual_breakthrough") {
		t.Error("Threshold re-fired while already above it")
	}

	if _, err := nyx.AddShamanicAwakening(1); err != nil {
		t.Fatalf("AddShamanicAwakening failed: %v", err)
	}
	if !nyx.HasDiscussed("shamanic_integration") {
		t.Error("Expected shamanic_integration after crossing 5")
	}
}

// TestNyxKitsuneSuspicionClampAndTopics tests the clamped double crossing
func TestNyxKitsuneSuspicionClampAndTopics(t *testing.T) {
	nyx := NewNyx()
	nyx.Nyx.KitsuneSuspicion.Set(3)

	val, err := nyx.AddKitsuneSuspicion(2)
	if err != nil {
		t.Fatalf("AddKitsuneSuspicion failed: %v", err)
	}

	if val != 5 {
		t.Errorf("Expected suspicion clamped at 5, got %d", val)
	}
	if !nyx.HasDiscussed("corporate_danger") {
		t.Error("Expected corporate_danger after crossing 4")
	}
	if !nyx.HasDiscussed("cover_blown") {
		t.Error("Expected cover_blown after crossing 5")
	}

	// Further increases stay clamped and fire nothing new.
	delete(nyx.Topics, "cover_blown")
	if val, _ := nyx.AddKitsuneSuspicion(3); val != 5 {
		t.Errorf("Expected suspicion to stay at 5, got %d", val)
	}
	if nyx.HasDiscussed("cover_blown") {
		t.Error("Clamped value re-fired a crossed threshold")
	}
}

// TestNyxCyberGlitches tests the glitch track reactions
func TestNyxCyberGlitches(t *testing.T) {
	nyx := NewNyx()

	if _, err := nyx.AddCyberGlitches(3); err != nil {
		t.Fatalf("AddCyberGlitches failed: %v", err)
	}
	if !nyx.HasDiscussed("spirit_interference") {
		t.Error("Expected spirit_interference after crossing 3")
	}

	if _, err := nyx.AddCyberGlitches(2); err != nil {
		t.Fatalf("AddCyberGlitches failed: %v", err)
	}
	if !nyx.HasDiscussed("chrome_rejection") {
		t.Error("Expected chrome_rejection after crossing 5")
	}
}

// TestVariantTracksRejectWrongKind tests kind-gated mutators
func TestVariantTracksRejectWrongKind(t *testing.T) {
	generic := NewClient("Ana", 34)

	if _, err := generic.AddShamanicAwakening(1); err == nil {
		t.Error("Expected error applying Nyx track to generic client")
	}
	if _, err := generic.AddClarity(1); err == nil {
		t.Error("Expected error applying Chen track to generic client")
	}

	chen := NewChen()
	if _, err := chen.AddKitsuneSuspicion(1); err == nil {
		t.Error("Expected error applying Nyx track to Chen")
	}
}

// TestChenClarityThresholds tests Chen's clarity reactions
func TestChenClarityThresholds(t *testing.T) {
	chen := NewChen()

	if _, err := chen.AddClarity(5); err != nil {
		t.Fatalf("AddClarity failed: %v", err)
	}
	if !chen.HasDiscussed("moment_of_clarity") {
		t.Error("Expected moment_of_clarity after crossing 5")
	}
	if chen.HasDiscussed("full_acceptance") {
		t.Error("Acceptance topic fired before crossing 8")
	}

	if _, err := chen.AddClarity(4); err != nil {
		t.Fatalf("AddClarity failed: %v", err)
	}
	if !chen.HasDiscussed("full_acceptance") {
		t.Error("Expected full_acceptance after crossing 8")
	}
	if chen.Chen.Clarity.Value != 9 {
		t.Errorf("Expected clarity 9, got %d", chen.Chen.Clarity.Value)
	}
}

// TestNyxDerivedProperties tests the computed stage and danger buckets
func TestNyxDerivedProperties(t *testing.T) {
	nyx := NewNyx()

	if got := nyx.AwakeningStage(); got != "dormant" {
		t.Errorf("Expected dormant, got %q", got)
	}

	nyx.Nyx.ShamanicAwakening.Set(3)
	if got := nyx.AwakeningStage(); got != "awakened" {
		t.Errorf("Expected awakened, got %q", got)
	}

	nyx.Nyx.ShamanicAwakening.Set(5)
	if got := nyx.AwakeningStage(); got != "integrated" {
		t.Errorf("Expected integrated, got %q", got)
	}

	nyx.Nyx.KitsuneSuspicion.Set(4)
	if got := nyx.DangerLevel(); got != "hunted" {
		t.Errorf("Expected hunted, got %q", got)
	}

	if nyx.IsAlly() {
		t.Error("Nyx should not be an ally at trust 50")
	}
	nyx.Trust.Set(80)
	if !nyx.IsAlly() {
		t.Error("Nyx should be an ally at trust 80")
	}

	generic := NewClient("Ana", 34)
	if generic.AwakeningStage() != "" || generic.DangerLevel() != "" {
		t.Error("Generic client should have empty variant buckets")
	}
}
