package learning

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend loads cleanly but refuses every save.
type failingBackend struct {
	saves int
}

func (b *failingBackend) Load(context.Context) (*State, error) { return nil, nil }

func (b *failingBackend) Save(context.Context, *State) error {
	b.saves++
	return errors.New("disk full")
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "learned_patterns.json")
	return NewStore(context.Background(), NewFileBackend(path), testLogger()), path
}

func TestStoreStartsFromDefaults(t *testing.T) {
	s, _ := newFileStore(t)

	_, ok := s.LookupMerchant("SWIGGY*BLR")
	assert.False(t, ok)

	snap := s.Snapshot()
	assert.Zero(t, snap.TotalParsed)
	assert.Zero(t, snap.LearnedMerchants)
	assert.NotNil(t, snap.BankStats)
}

func TestStoreMerchantMappingCaseFolding(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	s.RecordMerchantMapping(ctx, "swiggy*blr123", "Swiggy Instamart")

	// Keyed by the uppercased raw text regardless of input case.
	name, ok := s.LookupMerchant("SWIGGY*BLR123")
	require.True(t, ok)
	assert.Equal(t, "Swiggy Instamart", name)

	name, ok = s.LookupMerchant("  swiggy*blr123  ")
	require.True(t, ok)
	assert.Equal(t, "Swiggy Instamart", name)
}

func TestStoreCorrectionCaseFolding(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	s.RecordCorrection(ctx, "Swiggy", "Dining")

	category, ok := s.LookupCorrection("SWIGGY")
	require.True(t, ok)
	assert.Equal(t, "Dining", category)

	assert.Equal(t, 1, s.Snapshot().CorrectionsMade)
}

func TestStoreCustomPatternsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	s.RecordCustomPattern(ctx, "kirana", "Local Shopping")
	s.RecordCustomPattern(ctx, "gym", "Fitness")

	patterns := s.CustomPatterns()
	require.Len(t, patterns, 2)
	assert.Equal(t, "kirana", patterns[0].Keyword)
	assert.Equal(t, "gym", patterns[1].Keyword)
	assert.NotEqual(t, patterns[0].ID, patterns[1].ID)
	assert.False(t, patterns[0].AddedAt.IsZero())
}

func TestStoreRecordParse(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	s.RecordParse(ctx, "HDFC", true, true, 12)
	s.RecordParse(ctx, "HDFC", true, false, 2)
	s.RecordParse(ctx, "", false, false, 5)

	snap := s.Snapshot()
	assert.Equal(t, 19, snap.TotalParsed)
	require.Contains(t, snap.BankStats, "HDFC")
	assert.Equal(t, 2, snap.BankStats["HDFC"].Attempts)
	assert.Equal(t, 1, snap.BankStats["HDFC"].Success)
}

func TestStorePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStore(t)

	s.RecordMerchantMapping(ctx, "SWIGGY*BLR123", "Swiggy Instamart")
	s.RecordCorrection(ctx, "Swiggy", "Dining")
	s.RecordCustomPattern(ctx, "kirana", "Local Shopping")
	s.RecordParse(ctx, "HDFC", true, true, 7)

	reopened := NewStore(ctx, NewFileBackend(path), testLogger())

	name, ok := reopened.LookupMerchant("SWIGGY*BLR123")
	require.True(t, ok)
	assert.Equal(t, "Swiggy Instamart", name)

	category, ok := reopened.LookupCorrection("swiggy")
	require.True(t, ok)
	assert.Equal(t, "Dining", category)

	snap := reopened.Snapshot()
	assert.Equal(t, 7, snap.TotalParsed)
	assert.Equal(t, 1, snap.CorrectionsMade)
	assert.Equal(t, 1, snap.CustomPatterns)
	assert.Equal(t, 1, snap.BankStats["HDFC"].Attempts)
}

func TestStoreSurvivesPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	s := NewStore(ctx, backend, testLogger())

	var flushErrs []error
	s.OnFlush(func(err error) { flushErrs = append(flushErrs, err) })

	// The write fails but the in-memory state still serves lookups.
	s.RecordMerchantMapping(ctx, "SWIGGY*BLR", "Swiggy")

	name, ok := s.LookupMerchant("SWIGGY*BLR")
	require.True(t, ok)
	assert.Equal(t, "Swiggy", name)

	assert.Equal(t, 1, backend.saves)
	require.Len(t, flushErrs, 1)
	assert.Error(t, flushErrs[0])
}

func TestStoreMerchantMappingTargetsDeduplicated(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	s.RecordMerchantMapping(ctx, "SWIGGY*BLR1", "Swiggy")
	s.RecordMerchantMapping(ctx, "SWIGGY*BLR2", "Swiggy")
	s.RecordMerchantMapping(ctx, "ZOMATO ORDER", "Zomato")

	targets := s.MerchantMappingTargets()
	assert.ElementsMatch(t, []string{"Swiggy", "Zomato"}, targets)
}

func TestStoreUnreadableBackendStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned_patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(context.Background(), NewFileBackend(path), testLogger())
	assert.Zero(t, s.Snapshot().LearnedMerchants)
}
