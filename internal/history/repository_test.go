// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// repoFactories builds one of each backend rooted in a fresh temp dir.
func repoFactories(t *testing.T) map[string]func() Repository {
	return map[string]func() Repository{
		"memory": func() Repository { return NewMemoryRepository() },
		"sqlite": func() Repository {
			repo, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			return repo
		},
		"file": func() Repository {
			repo, err := NewFileRepository(filepath.Join(t.TempDir(), "history"))
			require.NoError(t, err)
			return repo
		},
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	for name, factory := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := factory()
			defer repo.Close()
			ctx := context.Background()

			want := MockRecords()[1]
			stored, err := repo.Record(ctx, want)
			require.NoError(t, err)
			if stored.ID != "2" {
				t.Errorf("stored.ID = %q, want 2", stored.ID)
			}

			got, err := repo.Get(ctx, "2")
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepository_AssignsIDAndNormalizesStatus(t *testing.T) {
	for name, factory := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := factory()
			defer repo.Close()
			ctx := context.Background()

			stored, err := repo.Record(ctx, Record{
				ClaimText:        "fresh claim",
				Status:           model.Status("weird"),
				VerificationDate: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)
			if !strings.HasPrefix(stored.ID, "claim_") {
				t.Errorf("ID = %q, want claim_ prefix", stored.ID)
			}

			got, err := repo.Get(ctx, stored.ID)
			require.NoError(t, err)
			if got.Status != model.StatusPending {
				t.Errorf("Status = %q, want pending", got.Status)
			}
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, factory := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := factory()
			defer repo.Close()
			ctx := context.Background()

			_, err := repo.Get(ctx, "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}
			if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepository_ListAndDelete(t *testing.T) {
	for name, factory := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := factory()
			defer repo.Close()
			ctx := context.Background()

			for _, rec := range MockRecords() {
				_, err := repo.Record(ctx, rec)
				require.NoError(t, err)
			}

			all, err := repo.List(ctx)
			require.NoError(t, err)
			if len(all) != 4 {
				t.Fatalf("List() len = %d, want 4", len(all))
			}

			// Applying the default query gives the same view regardless of backend.
			if diff := cmp.Diff([]string{"4", "1", "2", "3"}, ids(Apply(all, DefaultQuery()))); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}

			require.NoError(t, repo.Delete(ctx, "1"))
			all, err = repo.List(ctx)
			require.NoError(t, err)
			if len(all) != 3 {
				t.Errorf("List() after delete len = %d, want 3", len(all))
			}
		})
	}
}

func TestRepository_RecordReplacesExisting(t *testing.T) {
	for name, factory := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			repo := factory()
			defer repo.Close()
			ctx := context.Background()

			rec := MockRecords()[3]
			_, err := repo.Record(ctx, rec)
			require.NoError(t, err)

			rec.Status = model.StatusVerified
			rec.Summary = "Confirmed by the city council."
			_, err = repo.Record(ctx, rec)
			require.NoError(t, err)

			all, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			if all[0].Status != model.StatusVerified || all[0].Summary != rec.Summary {
				t.Errorf("record not replaced: %+v", all[0])
			}
		})
	}
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository(MockRecords()...)
	ctx := context.Background()

	got, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	got.EvidenceLinks[0].Title = "tampered"

	again, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	if again.EvidenceLinks[0].Title == "tampered" {
		t.Error("Get() must return a deep copy")
	}
}

func TestFileRepository_RejectsPathIDs(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), "../etc/passwd")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(traversal) error = %v, want ErrNotFound", err)
	}
}

func TestFileRepository_EnforcesLimit(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	repo.MaxRecords = 2
	ctx := context.Background()

	for _, rec := range MockRecords() {
		_, err := repo.Record(ctx, rec)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	// The two newest verifications survive.
	if diff := cmp.Diff([]string{"1", "4"}, ids(all)); diff != "" {
		t.Errorf("limit mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteRepository_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	repo, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = repo.Record(ctx, MockRecords()[0])
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = OpenSQLite(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	if got.Status != model.StatusDebunked {
		t.Errorf("Status = %q, want debunked", got.Status)
	}
}

func TestOpen(t *testing.T) {
	repo, err := Open(BackendMemory, "", true)
	require.NoError(t, err)
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	if len(all) != 4 {
		t.Errorf("seeded memory repo len = %d, want 4", len(all))
	}

	repo, err = Open(BackendSQLite, filepath.Join(t.TempDir(), "h.db"), false)
	require.NoError(t, err)
	defer repo.Close()
	all, err = repo.List(context.Background())
	require.NoError(t, err)
	if len(all) != 0 {
		t.Errorf("unseeded sqlite repo len = %d, want 0", len(all))
	}

	if _, err := Open("redis", "", false); err == nil {
		t.Error("Open(redis) should fail")
	}
}

func TestFromVerification(t *testing.T) {
	at := time.Date(2025, 5, 5, 5, 5, 0, 0, time.UTC)
	msg := model.NewVerifactMessage(model.StatusDebunked, "No.", "A\n\nB",
		model.Query{ImageName: "dolphin.jpg"}, at)

	rec := FromVerification(msg)
	if rec.ClaimText != "Image claim: the uploaded image (dolphin.jpg)" {
		t.Errorf("ClaimText = %q", rec.ClaimText)
	}
	if rec.Status != model.StatusDebunked || !rec.VerificationDate.Equal(at) {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Paragraphs()) != 2 {
		t.Errorf("Paragraphs() = %q", rec.Paragraphs())
	}
}
