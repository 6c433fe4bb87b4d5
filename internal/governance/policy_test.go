package governance

import (
	"context"
	"testing"
)

func TestDefaultPolicyEngine_Evaluate(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	// Read-only actions are allowed outright.
	res, err := engine.Evaluate(ctx, Request{Action: "flight_search"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res.Effect)
	}

	// Mutating actions need approval.
	res, err = engine.Evaluate(ctx, Request{Action: "save_preferences"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectNeedsApproval {
		t.Errorf("Expected EffectNeedsApproval, got %s", res.Effect)
	}

	// Denied actions lose regardless.
	engine.DenyAction("watch_prices")
	res, err = engine.Evaluate(ctx, Request{Action: "watch_prices"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_DenyArguments(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	if err := engine.DenyArguments(`(?i)drop\s+table`); err != nil {
		t.Fatal(err)
	}

	res, err := engine.Evaluate(context.Background(), Request{
		Action:    "flight_search",
		Arguments: `{"origin": "DROP TABLE watches"}`,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_ReadOnly(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	if !engine.ReadOnly("hotel_search") {
		t.Error("hotel_search should be read-only")
	}
	if engine.ReadOnly("save_preferences") {
		t.Error("save_preferences should not be read-only")
	}
}
