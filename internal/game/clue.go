package game

import (
	"strings"
	"unicode"
)

// MaskRune replaces hidden letters in a clue.
const MaskRune = '_'

// Clue masks title so only the first revealed letters or digits of each word show.
// Punctuation and spacing are always shown.
func Clue(title string, revealed int) string {
	var b strings.Builder
	b.Grow(len(title))

	pos := 0
	for _, r := range title {
		switch {
		case unicode.IsSpace(r):
			pos = 0
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pos < revealed {
				b.WriteRune(r)
			} else {
				b.WriteRune(MaskRune)
			}
			pos++
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// revealedLetters is how many letters per word a session's clue shows: one to start, plus one per wrong guess.
func revealedLetters(wrongGuesses int) int {
	return 1 + wrongGuesses
}
