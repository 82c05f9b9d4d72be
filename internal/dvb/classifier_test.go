package dvb

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassifyUnknownLabels(t *testing.T) {
	tr := NewTranslator(zap.NewNop())

	if _, ok := tr.Classify([]string{"klingon opera", "vogon poetry"}); ok {
		t.Fatalf("expected no match for unknown labels")
	}
	if _, ok := tr.Classify(nil); ok {
		t.Fatalf("expected no match for empty input")
	}
}

func TestClassifySingleLabel(t *testing.T) {
	tr := NewTranslator(zap.NewNop())

	category, ok := tr.Classify([]string{"drama"})
	if !ok {
		t.Fatalf("expected a match")
	}
	if category != "movie/drama" {
		t.Fatalf("expected movie/drama, got %q", category)
	}
}

func TestClassifyNormalizesLabels(t *testing.T) {
	tr := NewTranslator(zap.NewNop())

	category, ok := tr.Classify([]string{"  Drama "})
	if !ok || category != "movie/drama" {
		t.Fatalf("expected case-folded match, got %q ok=%v", category, ok)
	}
}

func TestClassifyCategorySubtotalBreaksGroupTie(t *testing.T) {
	tr := NewTranslator(zap.NewNop())

	// All three labels are in the Movie/Drama group; thriller and mysterie
	// give detective/thriller a higher subtotal than comedy.
	category, ok := tr.Classify([]string{"komedie", "thriller", "mysterie"})
	if !ok {
		t.Fatalf("expected a match")
	}
	if category != "detective/thriller" {
		t.Fatalf("expected detective/thriller, got %q", category)
	}
}

func TestClassifyStrongLabelBeatsWeakPile(t *testing.T) {
	tr := NewTranslator(zap.NewNop())

	// "misdaad" is a weak hint for current affairs; a direct movie label
	// must dominate it.
	category, ok := tr.Classify([]string{"misdaad", "film"})
	if !ok {
		t.Fatalf("expected a match")
	}
	if category != "movie/drama" {
		t.Fatalf("expected movie/drama, got %q", category)
	}
}

func TestClassifyAmbiguityIsDeterministicAndLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tr := NewTranslator(zap.New(core))

	// Two direct labels in different groups with equal totals, one category
	// each: a genuine tie at both levels.
	labels := []string{"nieuws", "muziek"}

	first, ok := tr.Classify(labels)
	if !ok {
		t.Fatalf("expected a match")
	}

	for i := 0; i < 10; i++ {
		got, ok := tr.Classify(labels)
		if !ok || got != first {
			t.Fatalf("expected deterministic result %q, got %q ok=%v", first, got, ok)
		}
	}
	if first != "music/ballet/dance" {
		t.Fatalf("expected lexically first finalist, got %q", first)
	}

	if logs.FilterMessage("ambiguous category classification").Len() == 0 {
		t.Fatalf("expected an ambiguity warning")
	}
}

func TestBuildTableLastAssignmentWins(t *testing.T) {
	groups := []taxonomyGroup{
		{name: "G1", categories: []taxonomyCategory{
			{name: "first", labels: []weightedLabel{{"dubbel", WeightDirect}}},
		}},
		{name: "G2", categories: []taxonomyCategory{
			{name: "second", labels: []weightedLabel{{"dubbel", WeightGroup}}},
		}},
	}

	table := buildTable(groups)
	entry, ok := table["dubbel"]
	if !ok {
		t.Fatalf("expected label in table")
	}
	if entry.Category != "second" || entry.Group != "G2" || entry.Weight != WeightGroup {
		t.Fatalf("expected last assignment to win, got %+v", entry)
	}
}

func TestLookupTableBuiltOnce(t *testing.T) {
	a := NewTranslator(zap.NewNop())
	b := NewTranslator(zap.NewNop())
	if len(a.table) == 0 {
		t.Fatalf("expected a populated table")
	}
	if reflect.ValueOf(a.table).Pointer() != reflect.ValueOf(b.table).Pointer() {
		t.Fatalf("expected repeated construction to reuse the same table")
	}
}
