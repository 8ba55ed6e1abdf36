package game

import "math/rand"

// newTestRand returns a deterministic random source for tests.
func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// truthfulRecord builds the row a truthful scorer would report for a guess.
func truthfulRecord(secret, word string) GuessRecord {
	return GuessRecord{Word: word, Tiles: tilesFor(word, Score(secret, word))}
}

// recordWithStates builds a row with explicitly chosen reported states.
func recordWithStates(word string, states []TileState) GuessRecord {
	return GuessRecord{Word: word, Tiles: tilesFor(word, states)}
}
