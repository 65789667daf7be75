package loam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerlab/platekit/pkg/ports/tests"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLoamStoreContract(t *testing.T) {
	tests.ParamStoreContractTest(t, newTestStore(t))
}

func TestDeleteKeepsHistoryAsTombstone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "stages", []byte(`{"xD":0.95}`)))
	require.NoError(t, s.Delete(ctx, "stages"))

	_, err := s.Load(ctx, "stages")
	require.Error(t, err)

	apps, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, apps, "stages")

	// A fresh save over the tombstone resurrects the document.
	require.NoError(t, s.Save(ctx, "stages", []byte(`{"xD":0.99}`)))
	doc, err := s.Load(ctx, "stages")
	require.NoError(t, err)
	assert.JSONEq(t, `{"xD":0.99}`, string(doc))
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Delete(context.Background(), "never-saved"))
}
