package ops

import (
	"context"
	"testing"

	"github.com/sproutnotes/sprout/internal/errors"
)

func TestSummarizeChat_CreatesIdea(t *testing.T) {
	database := testDB(t)
	advisor := testAdvisor(t, database, &fakeProvider{reply: `{"title":"Meal kit for climbers","details":"High-calorie kits"}`})

	out, err := SummarizeChat(context.Background(), database, advisor, "User: what about food for climbers?\nAssistant: interesting...")
	if err != nil {
		t.Fatalf("SummarizeChat failed: %v", err)
	}

	if out.Title != "Meal kit for climbers" {
		t.Errorf("Title = %q", out.Title)
	}

	stored, err := Fetch(database, out.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if stored.Details != "High-calorie kits" {
		t.Errorf("Details = %q", stored.Details)
	}
}

func TestSummarizeChat_MalformedFallsBackToTranscript(t *testing.T) {
	database := testDB(t)
	advisor := testAdvisor(t, database, &fakeProvider{reply: "no json here at all"})

	transcript := "User: something\nAssistant: something else"
	out, err := SummarizeChat(context.Background(), database, advisor, transcript)
	if err != nil {
		t.Fatalf("SummarizeChat must degrade, not fail: %v", err)
	}

	if out.Title != "Untitled Idea" {
		t.Errorf("Title = %q, want placeholder", out.Title)
	}
	if out.Details != transcript {
		t.Errorf("Details = %q, want raw transcript preserved", out.Details)
	}
}

func TestSummarizeChat_ProviderFailurePropagates(t *testing.T) {
	database := testDB(t)
	advisor := testAdvisor(t, database, &fakeProvider{err: errors.NewProviderError("gemini", nil)})

	_, err := SummarizeChat(context.Background(), database, advisor, "some transcript")
	if !errors.Is(err, errors.ErrProviderError) {
		t.Errorf("err = %v, want PROVIDER_ERROR", err)
	}
}

func TestSummarizeChat_RequiresTranscript(t *testing.T) {
	database := testDB(t)
	advisor := testAdvisor(t, database, &fakeProvider{reply: "{}"})

	_, err := SummarizeChat(context.Background(), database, advisor, "  ")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
