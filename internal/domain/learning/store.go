// Package learning holds the persisted learned-pattern store: merchant
// mappings, category corrections, custom keyword patterns and parsing
// stats. The store is loaded once at startup and fully rewritten through
// its backend after every mutation.
package learning

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-engine/internal/domain/statement"
)

// CustomPattern is a user-added keyword→category rule, checked in the
// order it was added.
type CustomPattern struct {
	ID       uuid.UUID `json:"id"`
	Keyword  string    `json:"keyword"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
}

// Stats accumulates parse and correction counters across runs.
type Stats struct {
	TotalParsed     int                            `json:"total_parsed"`
	CorrectionsMade int                            `json:"corrections_made"`
	BankStats       map[string]statement.BankStats `json:"bank_stats"`
}

// State is the durable shape of the store. Merchant mappings are keyed by
// the uppercased raw description; category corrections by the lowercased
// normalized merchant.
type State struct {
	MerchantMappings    map[string]string `json:"merchant_mappings"`
	CategoryCorrections map[string]string `json:"category_corrections"`
	CustomPatterns      []CustomPattern   `json:"custom_patterns"`
	ParsingStats        Stats             `json:"parsing_stats"`
}

// Backend loads and saves the full store state. Save rewrites the whole
// record; there is no incremental append.
type Backend interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// FlushListener is notified after every persistence attempt. Used to feed
// metrics without coupling the store to a collector.
type FlushListener func(err error)

// Store is the process-wide learned-pattern state. The in-process mutex
// protects concurrent readers within one process; the durable record
// still assumes a single writer at a time. Two processes racing on the
// same backend can clobber each other's full-store rewrite.
type Store struct {
	mu      sync.RWMutex
	state   State
	backend Backend
	logger  *slog.Logger
	onFlush FlushListener
}

func defaultState() State {
	return State{
		MerchantMappings:    make(map[string]string),
		CategoryCorrections: make(map[string]string),
		CustomPatterns:      nil,
		ParsingStats: Stats{
			BankStats: make(map[string]statement.BankStats),
		},
	}
}

// NewStore creates a store bound to a backend and loads the persisted
// state merged over in-memory defaults. A missing or partially readable
// record never fails startup; the error is logged and defaults are used.
func NewStore(ctx context.Context, backend Backend, logger *slog.Logger) *Store {
	s := &Store{
		state:   defaultState(),
		backend: backend,
		logger:  logger,
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		logger.Warn("learned store unreadable, starting from defaults", slog.Any("error", err))
		return s
	}
	if loaded != nil {
		s.merge(loaded)
	}
	return s
}

// OnFlush registers a listener invoked after each persistence attempt.
func (s *Store) OnFlush(fn FlushListener) {
	s.onFlush = fn
}

// merge copies a loaded state over the defaults, tolerating nil maps from
// a partial record.
func (s *Store) merge(loaded *State) {
	for k, v := range loaded.MerchantMappings {
		s.state.MerchantMappings[k] = v
	}
	for k, v := range loaded.CategoryCorrections {
		s.state.CategoryCorrections[k] = v
	}
	s.state.CustomPatterns = append(s.state.CustomPatterns, loaded.CustomPatterns...)
	s.state.ParsingStats.TotalParsed = loaded.ParsingStats.TotalParsed
	s.state.ParsingStats.CorrectionsMade = loaded.ParsingStats.CorrectionsMade
	for k, v := range loaded.ParsingStats.BankStats {
		s.state.ParsingStats.BankStats[k] = v
	}
}

// LookupMerchant returns the learned canonical name for a raw
// description, keyed by its uppercased form.
func (s *Store) LookupMerchant(raw string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.state.MerchantMappings[strings.ToUpper(strings.TrimSpace(raw))]
	return name, ok
}

// LookupCorrection returns the learned category for a normalized
// merchant, keyed by its lowercased form.
func (s *Store) LookupCorrection(merchant string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.state.CategoryCorrections[strings.ToLower(strings.TrimSpace(merchant))]
	return category, ok
}

// CustomPatterns returns the user-added keyword patterns in insertion
// order.
func (s *Store) CustomPatterns() []CustomPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CustomPattern, len(s.state.CustomPatterns))
	copy(out, s.state.CustomPatterns)
	return out
}

// MerchantMappingTargets returns the canonical names learned so far,
// deduplicated. The suggestion index seeds itself from these.
func (s *Store) MerchantMappingTargets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.state.MerchantMappings))
	out := make([]string, 0, len(s.state.MerchantMappings))
	for _, name := range s.state.MerchantMappings {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// RecordCorrection stores a category correction under the lowercased
// merchant and persists. Categories are accepted verbatim; the set is
// open to learning.
func (s *Store) RecordCorrection(ctx context.Context, merchant, category string) {
	s.mu.Lock()
	s.state.CategoryCorrections[strings.ToLower(strings.TrimSpace(merchant))] = category
	s.state.ParsingStats.CorrectionsMade++
	s.mu.Unlock()

	s.flush(ctx)
}

// RecordMerchantMapping stores a raw-description→canonical-name mapping
// under the uppercased raw text and persists.
func (s *Store) RecordMerchantMapping(ctx context.Context, raw, canonical string) {
	s.mu.Lock()
	s.state.MerchantMappings[strings.ToUpper(strings.TrimSpace(raw))] = canonical
	s.mu.Unlock()

	s.flush(ctx)
}

// RecordCustomPattern appends a keyword→category rule and persists.
func (s *Store) RecordCustomPattern(ctx context.Context, keyword, category string) {
	s.mu.Lock()
	s.state.CustomPatterns = append(s.state.CustomPatterns, CustomPattern{
		ID:       uuid.New(),
		Keyword:  keyword,
		Category: category,
		AddedAt:  time.Now().UTC(),
	})
	s.mu.Unlock()

	s.flush(ctx)
}

// RecordParse accumulates parse counters for one completed call:
// totalParsed grows by the number of transactions returned, and when a
// bank pass ran its attempt/success counters advance. One flush per call.
func (s *Store) RecordParse(ctx context.Context, bank string, bankAttempted, bankSucceeded bool, count int) {
	s.mu.Lock()
	s.state.ParsingStats.TotalParsed += count
	if bankAttempted && bank != "" {
		bs := s.state.ParsingStats.BankStats[bank]
		bs.Attempts++
		if bankSucceeded {
			bs.Success++
		}
		s.state.ParsingStats.BankStats[bank] = bs
	}
	s.mu.Unlock()

	s.flush(ctx)
}

// Snapshot returns the current counters plus learned-entry counts.
func (s *Store) Snapshot() statement.ParsingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	banks := make(map[string]statement.BankStats, len(s.state.ParsingStats.BankStats))
	for k, v := range s.state.ParsingStats.BankStats {
		banks[k] = v
	}

	return statement.ParsingStats{
		TotalParsed:         s.state.ParsingStats.TotalParsed,
		CorrectionsMade:     s.state.ParsingStats.CorrectionsMade,
		BankStats:           banks,
		LearnedMerchants:    len(s.state.MerchantMappings),
		CategoryCorrections: len(s.state.CategoryCorrections),
		CustomPatterns:      len(s.state.CustomPatterns),
	}
}

// flush rewrites the full state through the backend. Persistence failures
// are logged and swallowed; parsing continues on the in-memory state.
func (s *Store) flush(ctx context.Context) {
	s.mu.RLock()
	snapshot := State{
		MerchantMappings:    make(map[string]string, len(s.state.MerchantMappings)),
		CategoryCorrections: make(map[string]string, len(s.state.CategoryCorrections)),
		CustomPatterns:      make([]CustomPattern, len(s.state.CustomPatterns)),
		ParsingStats: Stats{
			TotalParsed:     s.state.ParsingStats.TotalParsed,
			CorrectionsMade: s.state.ParsingStats.CorrectionsMade,
			BankStats:       make(map[string]statement.BankStats, len(s.state.ParsingStats.BankStats)),
		},
	}
	for k, v := range s.state.MerchantMappings {
		snapshot.MerchantMappings[k] = v
	}
	for k, v := range s.state.CategoryCorrections {
		snapshot.CategoryCorrections[k] = v
	}
	copy(snapshot.CustomPatterns, s.state.CustomPatterns)
	for k, v := range s.state.ParsingStats.BankStats {
		snapshot.ParsingStats.BankStats[k] = v
	}
	s.mu.RUnlock()

	err := s.backend.Save(ctx, &snapshot)
	if err != nil {
		s.logger.Warn("failed to persist learned store", slog.Any("error", err))
	}
	if s.onFlush != nil {
		s.onFlush(err)
	}
}
