// internal/game/firstguess.go
//
// Disk cache for opening-move rankings. With an empty history the candidate
// set is the whole secrets list, so the ranking is identical for every fresh
// session and worth persisting across runs. The cache is keyed by a format
// version and the secrets count; any mismatch discards it.

package game

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	firstGuessCacheVersion = 1
	firstGuessCacheFile    = "first_guess_entropies.json"
)

type firstGuessCache struct {
	Version int               `json:"version"`
	Secrets int               `json:"totalSecrets"`
	Entries []firstGuessEntry `json:"entries"`
}

type firstGuessEntry struct {
	Word        string  `json:"guess"`
	EntropyBits float64 `json:"entropyBits"`
}

// firstGuessSuggestions serves the empty-history ranking, reading the disk
// cache when it is fresh and writing it after a recompute. Disk failures are
// silent: the cache is an optimization, never a dependency.
func (s *Session) firstGuessSuggestions() []Suggestion {
	if entries, ok := loadFirstGuessCache(len(s.secrets)); ok {
		out := make([]Suggestion, 0, len(entries))
		for _, e := range entries {
			// Empty history: every secret is still a candidate.
			out = append(out, Suggestion{Word: e.Word, EntropyBits: e.EntropyBits, IsCandidate: true})
		}
		if s.Config.SuggestionLimit > 0 && len(out) > s.Config.SuggestionLimit {
			out = out[:s.Config.SuggestionLimit]
		}
		return out
	}

	entries := RankGuesses(s.secrets, s.secrets, s.Config.SuggestionLimit)
	_ = writeFirstGuessCache(entries, len(s.secrets))
	return entries
}

// loadFirstGuessCache reads and validates the cache file.
func loadFirstGuessCache(secretCount int) ([]firstGuessEntry, bool) {
	path, ok := cacheFilePath()
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var cache firstGuessCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, false
	}
	if cache.Version != firstGuessCacheVersion || cache.Secrets != secretCount || len(cache.Entries) == 0 {
		return nil, false
	}
	return cache.Entries, true
}

// writeFirstGuessCache persists a freshly computed opening ranking.
func writeFirstGuessCache(entries []Suggestion, secretCount int) error {
	path, ok := cacheFilePath()
	if !ok {
		return nil
	}
	cache := firstGuessCache{
		Version: firstGuessCacheVersion,
		Secrets: secretCount,
		Entries: make([]firstGuessEntry, 0, len(entries)),
	}
	for _, e := range entries {
		cache.Entries = append(cache.Entries, firstGuessEntry{Word: e.Word, EntropyBits: e.EntropyBits})
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// cacheFilePath resolves the per-user cache location.
func cacheFilePath() (string, bool) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "fibble", firstGuessCacheFile), true
}
