package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/ports"
)

// ParamStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.ParamStore. Call it with a fresh, empty store.
func ParamStoreContractTest(t *testing.T, store ports.ParamStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "never-saved")
		if !errors.Is(err, domain.ErrParamsNotFound) {
			t.Errorf("expected ErrParamsNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		doc := []byte(`{"xD":"0.95","xW":"0.05"}`)
		if err := store.Save(ctx, "stages", doc); err != nil {
			t.Fatalf("unexpected error saving: %v", err)
		}

		got, err := store.Load(ctx, "stages")
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if string(got) != string(doc) {
			t.Errorf("document mismatch. got %q, want %q", got, doc)
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		if err := store.Save(ctx, "stages", []byte(`{"xD":"0.90"}`)); err != nil {
			t.Fatalf("unexpected error overwriting: %v", err)
		}

		got, err := store.Load(ctx, "stages")
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if string(got) != `{"xD":"0.90"}` {
			t.Errorf("expected overwritten document, got %q", got)
		}
	})

	t.Run("List_ContainsSaved", func(t *testing.T) {
		if err := store.Save(ctx, "envelope", []byte(`{}`)); err != nil {
			t.Fatalf("unexpected error saving: %v", err)
		}

		apps, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}

		lookup := make(map[string]bool, len(apps))
		for _, app := range apps {
			lookup[app] = true
		}
		for _, want := range []string{"stages", "envelope"} {
			if !lookup[want] {
				t.Errorf("app %s missing from list %v", want, apps)
			}
		}
	})

	t.Run("Delete_RemovesAndIsIdempotent", func(t *testing.T) {
		if err := store.Delete(ctx, "stages"); err != nil {
			t.Fatalf("unexpected error deleting: %v", err)
		}
		if _, err := store.Load(ctx, "stages"); !errors.Is(err, domain.ErrParamsNotFound) {
			t.Errorf("expected ErrParamsNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, "stages"); err != nil {
			t.Errorf("second delete must not fail: %v", err)
		}
	})

	t.Run("Save_RejectsEmptyApp", func(t *testing.T) {
		if err := store.Save(ctx, "", []byte(`{}`)); err == nil {
			t.Error("expected error for empty app name, got nil")
		}
	})
}
