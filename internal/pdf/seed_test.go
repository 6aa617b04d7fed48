package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "see https://doi.org/10.1145/3292500.3330701 for details", "10.1145/3292500.3330701"},
		{"trailing period", "DOI: 10.1037/0003-066X.59.1.29.", "10.1037/0003-066X.59.1.29"},
		{"none", "no identifiers in this text", ""},
		{"too short suffix", "10.1234/", ""},
		{"first of several", "10.1000/first then 10.1000/second", "10.1000/first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestGuessTitle(t *testing.T) {
	text := "Journal of Testing Vol 3\n" +
		"short\n" +
		"A Longitudinal Study of Citation Graph Growth\n" +
		"Jane Doe, University of Somewhere\n"

	if got := guessTitle(text); got != "A Longitudinal Study of Citation Graph Growth" {
		t.Errorf("guessTitle = %q", got)
	}

	if got := guessTitle("short\nlines\nonly\n"); got != "" {
		t.Errorf("guessTitle on short lines = %q, want empty", got)
	}
}
