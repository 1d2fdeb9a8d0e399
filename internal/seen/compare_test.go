package seen

import (
	"testing"

	"github.com/jimezsa/ghsearch/internal/models"
)

func repo(id string) models.Item {
	return models.Item{Kind: models.KindRepository, ID: id, URL: "https://github.com/" + id}
}

func commit(sha string) models.Item {
	return models.Item{Kind: models.KindCommit, ID: sha}
}

func TestKey(t *testing.T) {
	got, ok := Key(models.Item{Kind: " Repository ", ID: "  Octo/Django-Blog "})
	if !ok {
		t.Fatalf("expected valid key")
	}
	if want := "repository::octo/django-blog"; got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}

	if _, ok := Key(models.Item{Kind: models.KindCommit}); ok {
		t.Fatalf("Key() without id should be invalid")
	}
}

func TestKeySeparatesKinds(t *testing.T) {
	a, _ := Key(repo("abc"))
	b, _ := Key(commit("abc"))
	if a == b {
		t.Fatalf("repository and commit keys collide: %q", a)
	}
}

func TestDiff(t *testing.T) {
	fresh := []models.Item{
		repo("octo/app"),
		repo("OCTO/app"),
		repo("octo/new"),
		commit("abc123"),
		{Kind: models.KindRepository},
	}
	history := []models.Item{
		repo("octo/app"),
		repo("octo/app"),
		{ID: "no-kind"},
	}

	unseen, stats := Diff(fresh, history)
	if len(unseen) != 2 {
		t.Fatalf("expected 2 unseen items, got %d: %+v", len(unseen), unseen)
	}
	if unseen[0].ID != "octo/new" || unseen[1].ID != "abc123" {
		t.Fatalf("unexpected unseen items: %+v", unseen)
	}
	if stats.TotalNew != 5 || stats.TotalSeen != 3 {
		t.Fatalf("totals = %d/%d, want 5/3", stats.TotalNew, stats.TotalSeen)
	}
	if stats.InvalidSkipped() != 2 {
		t.Fatalf("InvalidSkipped = %d, want 2", stats.InvalidSkipped())
	}
	if stats.Unseen != 2 {
		t.Fatalf("Unseen = %d, want 2", stats.Unseen)
	}
}

func TestMergeAndIdempotency(t *testing.T) {
	history := []models.Item{
		repo("octo/app"),
		{Kind: models.KindCommit},
	}
	input := []models.Item{
		repo("Octo/App"),
		commit("abc123"),
		{ID: "broken"},
	}

	merged, stats := Merge(history, input)
	if len(merged) != 3 {
		t.Fatalf("expected merged len=3, got %d", len(merged))
	}
	if merged[0].ID != "octo/app" {
		t.Fatalf("existing entry should win collisions, got %q", merged[0].ID)
	}
	if stats.Added != 1 || stats.InvalidSeen != 1 || stats.InvalidInput != 1 || stats.TotalOut != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	again, statsAgain := Merge(merged, input)
	if len(again) != len(merged) || statsAgain.Added != 0 {
		t.Fatalf("merge not idempotent: len=%d added=%d", len(again), statsAgain.Added)
	}
}
