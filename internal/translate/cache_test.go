package translate

import "testing"

func TestCache_ReusesEntryForSameLanguage(t *testing.T) {
	f := &fakeTranslator{tag: "[zh]"}
	c := NewCache(New(f))

	first := c.Get(t.Context(), testUnit(), "Chinese", "")
	n := f.calls()
	second := c.Get(t.Context(), testUnit(), "Chinese", "")

	if first == nil || first != second {
		t.Fatal("expected the cached translation to be reused")
	}
	if f.calls() != n {
		t.Errorf("expected no extra requests, got %d", f.calls()-n)
	}
}

func TestCache_SwitchInvalidates(t *testing.T) {
	f := &fakeTranslator{tag: "[x]"}
	c := NewCache(New(f))

	c.Get(t.Context(), testUnit(), "Chinese", "")
	c.Switch("Chinese")
	if c.Current() == nil {
		t.Fatal("switching to the same language should keep the entry")
	}
	c.Switch("Korean")
	if c.Current() != nil {
		t.Fatal("switching language should drop the entry")
	}

	n := f.calls()
	c.Get(t.Context(), testUnit(), "Chinese", "")
	if f.calls() == n {
		t.Error("expected the translation to be rebuilt after a switch")
	}
}

func TestCache_SourceLanguageClears(t *testing.T) {
	c := NewCache(New(&fakeTranslator{tag: "[x]"}))
	c.Get(t.Context(), testUnit(), "Chinese", "")

	if tr := c.Get(t.Context(), testUnit(), "English", ""); tr != nil {
		t.Fatalf("expected nil translation for the source language, got %+v", tr)
	}
	if c.Current() != nil {
		t.Error("expected the cache to be cleared")
	}

	u, ok := c.Localize(t.Context(), testUnit(), "English", "")
	if ok || u.Title != "Universal Grammar" {
		t.Errorf("Localize(English) = %q, %v", u.Title, ok)
	}
	if got := c.Labels(t.Context(), testUnit(), "English", ""); got.Get(LabelSubmit) != "Submit" {
		t.Errorf("labels = %v", got)
	}
}

func TestCache_LocalizeReturnsCopy(t *testing.T) {
	c := NewCache(New(&fakeTranslator{tag: "[x]"}))

	u, ok := c.Localize(t.Context(), testUnit(), "Chinese", "")
	if !ok {
		t.Fatal("expected a localized unit")
	}
	u.Questions[0].Options[0] = "mutated"

	again, _ := c.Localize(t.Context(), testUnit(), "Chinese", "")
	if again.Questions[0].Options[0] == "mutated" {
		t.Error("Localize returned shared option slices")
	}
}
