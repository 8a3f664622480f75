package game

import "testing"

func TestClue(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		revealed int
		want     string
	}{
		{"single word first letter", "Imagine", 1, "I______"},
		{"each word revealed", "Hey Jude", 1, "H__ J___"},
		{"more letters", "Hey Jude", 2, "He_ Ju__"},
		{"punctuation shown", "Don't Stop Me Now!", 1, "D_'__ S___ M_ N__!"},
		{"digits count as letters", "99 Luftballons", 1, "9_ L_________"},
		{"fully revealed", "Yesterday", 20, "Yesterday"},
		{"nothing revealed", "Help", 0, "____"},
		{"non-ascii", "Café", 3, "Caf_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clue(tt.title, tt.revealed); got != tt.want {
				t.Errorf("Clue(%q, %d) = %q, want %q", tt.title, tt.revealed, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		guess, title string
		want         bool
	}{
		{"imagine ", "Imagine", true},
		{"  HEY jude\t", "Hey Jude", true},
		{"hey   jude", "Hey Jude", false},
		{"imagin", "Imagine", false},
		{"", "", false},
		{"   ", "Imagine", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.guess, tt.title); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.guess, tt.title, got, tt.want)
		}
	}
}
