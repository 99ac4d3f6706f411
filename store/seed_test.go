package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaggly/flaggly/pkg/kv"
	"github.com/flaggly/flaggly/store"
)

const seedYAML = `
segments:
  pro-users:
    attr: user.plan
    op: eq
    value: pro
flags:
  dark-mode:
    kind: boolean
    enabled: true
    segments: [pro-users]
    default: {type: boolean, result: false}
  onboarding-flow:
    kind: variant
    enabled: true
    rollout: {classic: 5000, guided: 5000}
    default: {type: variant, result: classic}
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	doc, err := store.LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)

	require.Contains(t, doc.Flags, "dark-mode")
	assert.Equal(t, "dark-mode", doc.Flags["dark-mode"].ID, "id derived from the map key")
	assert.Contains(t, doc.Segments, "pro-users")
	assert.Equal(t, 5000, doc.Flags["onboarding-flow"].Rollout["guided"])
}

func TestLoadSeedRejectsBrokenReferences(t *testing.T) {
	t.Parallel()

	broken := `
flags:
  dark-mode:
    kind: boolean
    enabled: true
    segments: [ghost]
    default: {type: boolean, result: false}
`
	_, err := store.LoadSeed(writeSeed(t, broken))
	require.ErrorIs(t, err, store.ErrSegmentNotFound)
}

func TestLoadSeedRejectsMismatchedID(t *testing.T) {
	t.Parallel()

	mismatched := `
flags:
  dark-mode:
    id: light-mode
    kind: boolean
    enabled: true
    default: {type: boolean, result: false}
`
	_, err := store.LoadSeed(writeSeed(t, mismatched))
	require.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestSeedOnlyWritesEmptyTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := store.New(kv.NewMemory(), "acme", "production")
	doc, err := store.LoadSeed(writeSeed(t, seedYAML))
	require.NoError(t, err)

	require.NoError(t, s.Seed(ctx, doc))
	loaded, err := s.GetData(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Flags, 2)

	// A live mutation after seeding must survive a second seed.
	_, err = s.DeleteFlag(ctx, "dark-mode")
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, doc))

	after, err := s.GetData(ctx)
	require.NoError(t, err)
	assert.NotContains(t, after.Flags, "dark-mode")
}
