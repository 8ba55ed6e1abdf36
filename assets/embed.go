package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed allowed.txt secrets.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// SecretsList returns the embedded list of eligible secret words.
func SecretsList() ([]string, error) {
	return readLines("secrets.txt")
}

// AllowedList returns the embedded list of legal guesses.
// Secrets are always a subset of the allowed set after ingestion.
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}
