// internal/words/words.go
//
// Word list management for the inference engine.
//
// Responsibilities:
//   - Load secret and allowed-guess lists from environment-provided files or
//     fall back to the embedded defaults in the assets package.
//   - Maintain sets for quick lookups (secrets only, secrets∪guesses).
//   - Supply accessors used by sessions: Secrets, Allowed, IsAllowed, IsSecret.
//
// Word Lists:
//   - "secrets": words eligible to be chosen as the hidden word; also the
//     universe for candidate filtering and entropy ranking.
//   - "allowed": valid guesses (always includes secrets).
//
// Initialization behavior (Init):
//   1. If WORDS_SECRETS_FILE and WORDS_ALLOWED_FILE are both set,
//      load secrets from the first and allowed guesses from the second.
//   2. If only WORDS_ALLOWED_FILE is set,
//      load that file and use it for both secrets and allowed guesses.
//   3. If neither is set, use the embedded lists from the assets package.
//
// Constraints:
//   • Words are exactly 5 ASCII letters; malformed lines are silently dropped.
//   • Lists are normalized to uppercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/fibble-labs/fibble-server/assets"
)

// WordLength is the fixed word length for both lists.
const WordLength = 5

var (
	initOnce   sync.Once
	secrets    []string            // eligible hidden words, uppercase
	allowedSet map[string]struct{} // secrets ∪ guesses
	secretsSet map[string]struct{} // secrets only
	initialErr error
)

// Init loads word lists exactly once.
// Returns an error if the secrets list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var secList, allowList []string

		secretsPath := os.Getenv("WORDS_SECRETS_FILE")
		allowedPath := os.Getenv("WORDS_ALLOWED_FILE")

		switch {
		// Case 1: both lists provided
		case secretsPath != "" && allowedPath != "":
			var err error
			secList, err = readWordFile(secretsPath)
			if err != nil {
				initialErr = err
				return
			}
			allowList, err = readWordFile(allowedPath)
			if err != nil {
				initialErr = err
				return
			}

		// Case 2: only allowed file provided → use for both
		case secretsPath == "" && allowedPath != "":
			var err error
			allowList, err = readWordFile(allowedPath)
			if err != nil {
				initialErr = err
				return
			}
			secList = allowList

		// Case 3: fallback to embedded lists
		default:
			var err error
			secList, err = assets.SecretsList()
			if err != nil {
				initialErr = err
				return
			}
			allowList, err = assets.AllowedList()
			if err != nil {
				initialErr = err
				return
			}
		}

		secList = keepWellFormed(secList)
		allowList = keepWellFormed(allowList)

		secrets = secList
		secretsSet = toSet(secList)

		// Ensure all secrets are also allowed guesses.
		allowedSet = toSet(secList)
		for _, w := range allowList {
			allowedSet[w] = struct{}{}
		}

		if len(secrets) == 0 {
			initialErr = errors.New("words: secrets list is empty")
		}
	})
	return initialErr
}

// readWordFile loads one word per line from a file, uppercases and trims,
// and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.ToUpper(strings.TrimSpace(sc.Text())))
	}
	return out, sc.Err()
}

// keepWellFormed drops malformed entries: wrong length or non A–Z.
func keepWellFormed(list []string) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if len(w) == WordLength && isUpperAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isUpperAlpha reports whether s is all uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Secrets returns the secrets list (uppercase).
// Callers must not mutate the returned slice.
func Secrets() []string {
	return secrets
}

// Allowed returns the allowed-guess set (secrets ∪ guesses).
func Allowed() map[string]struct{} {
	return allowedSet
}

// IsAllowed reports whether w is a valid guess.
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToUpper(w)]
	return ok
}

// IsSecret reports whether w is an eligible secret word.
func IsSecret(w string) bool {
	_, ok := secretsSet[strings.ToUpper(w)]
	return ok
}

// Stats returns counts of loaded words: (secrets, allowed).
func Stats() (secretsCount int, allowedCount int) {
	return len(secrets), len(allowedSet)
}
