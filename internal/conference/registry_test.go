package conference

import (
	"errors"
	"testing"
)

// TestLookupBuiltIn verifies that built-in venue ids resolve without any
// user-defined entries present.
func TestLookupBuiltIn(t *testing.T) {
	conf, err := Lookup(nil, "neurips")
	if err != nil {
		t.Fatalf("expected lookup to succeed: %v", err)
	}
	if conf.ShortName != "NeurIPS" {
		t.Fatalf("unexpected venue: %+v", conf)
	}
	if conf.FocusArea == "" {
		t.Fatal("built-in venue missing focus area")
	}
}

// TestLookupUnknown verifies that an unknown id fails with the sentinel
// error rather than returning a zero-value venue.
func TestLookupUnknown(t *testing.T) {
	_, err := Lookup(nil, "sigbovik")
	if !errors.Is(err, ErrConferenceNotFound) {
		t.Fatalf("expected ErrConferenceNotFound, got %v", err)
	}
}

// TestLookupCustomShadowsBuiltIn verifies that a user-defined venue with a
// built-in id takes precedence, so its custom rules flow into prompts.
func TestLookupCustomShadowsBuiltIn(t *testing.T) {
	custom := []Conference{
		{
			ID:          "iclr",
			Name:        "ICLR",
			ShortName:   "ICLR",
			FocusArea:   "Deep Learning only.",
			CustomRules: "Reject all position papers.",
		},
	}

	conf, err := Lookup(custom, "iclr")
	if err != nil {
		t.Fatalf("expected lookup to succeed: %v", err)
	}
	if conf.CustomRules != "Reject all position papers." {
		t.Fatalf("expected custom entry to shadow built-in, got %+v",
			conf)
	}
}

// TestLookupLatestCustomWins verifies the newest duplicate user-defined
// entry is preferred.
func TestLookupLatestCustomWins(t *testing.T) {
	custom := []Conference{
		{ID: "myconf", Name: "MyConf", FocusArea: "old"},
		{ID: "myconf", Name: "MyConf", FocusArea: "new"},
	}

	conf, err := Lookup(custom, "myconf")
	if err != nil {
		t.Fatalf("expected lookup to succeed: %v", err)
	}
	if conf.FocusArea != "new" {
		t.Fatalf("expected latest duplicate to win, got %+v", conf)
	}
}

// TestMergedOrder verifies the merged set concatenates built-ins and custom
// entries in order without de-duplication.
func TestMergedOrder(t *testing.T) {
	custom := []Conference{
		{ID: "neurips", Name: "Shadowed NeurIPS"},
		{ID: "myconf", Name: "MyConf"},
	}

	merged := Merged(custom)
	if len(merged) != len(BuiltIn())+len(custom) {
		t.Fatalf("expected no de-duplication, got %d entries",
			len(merged))
	}
	if merged[0].ID != "neurips" {
		t.Fatalf("expected built-ins first, got %s", merged[0].ID)
	}
	if merged[len(merged)-1].ID != "myconf" {
		t.Fatalf("expected custom entries last, got %s",
			merged[len(merged)-1].ID)
	}
}

// TestBuiltInIsCopy verifies callers cannot mutate the process-constant
// venue set through the returned slice.
func TestBuiltInIsCopy(t *testing.T) {
	first := BuiltIn()
	first[0].Name = "mutated"

	second := BuiltIn()
	if second[0].Name == "mutated" {
		t.Fatal("BuiltIn returned a shared slice")
	}
}
