package classify_test

import (
	"errors"
	"testing"

	"linkarr/internal/classify"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		wantName   string
		wantYear   string
		wantSeason int
	}{
		{
			name:       "dotted release name",
			input:      "Show.Name.S02.1080p.WEB-DL",
			wantName:   "Show Name",
			wantYear:   "",
			wantSeason: 2,
		},
		{
			name:       "year in parentheses",
			input:      "My Show (2019) S01 2160p",
			wantName:   "My Show",
			wantYear:   "2019",
			wantSeason: 1,
		},
		{
			name:       "bare year stays in the title",
			input:      "My Show 2019 S03 720p",
			wantName:   "My Show 2019",
			wantYear:   "2019",
			wantSeason: 3,
		},
		{
			name:       "season text stripped",
			input:      "Cool Show Season 2 S02 1080p",
			wantName:   "Cool Show",
			wantYear:   "",
			wantSeason: 2,
		},
		{
			name:       "lowercase tokens get capitalized, rest preserved",
			input:      "the.expanse.S01.1080p.WEB",
			wantName:   "The Expanse",
			wantYear:   "",
			wantSeason: 1,
		},
		{
			name:       "episode marker acceptable as anchor",
			input:      "Some.Show.S01E01.1080p.mkv",
			wantName:   "Some Show",
			wantYear:   "",
			wantSeason: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series, err := classify.Classify(tc.input)
			if err != nil {
				t.Fatalf("Classify(%q): %v", tc.input, err)
			}
			if series.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", series.Name, tc.wantName)
			}
			if series.Year != tc.wantYear {
				t.Errorf("Year = %q, want %q", series.Year, tc.wantYear)
			}
			if series.SeasonHint != tc.wantSeason {
				t.Errorf("SeasonHint = %d, want %d", series.SeasonHint, tc.wantSeason)
			}
		})
	}
}

func TestClassifyRejectsNamesWithoutAnchor(t *testing.T) {
	for _, input := range []string{
		"Show.Extras.1080p",    // no season marker
		"Show.Name.S02.WEB-DL", // no resolution marker
		"random folder",
		"",
	} {
		if _, err := classify.Classify(input); !errors.Is(err, classify.ErrNoSeasonAnchor) {
			t.Errorf("Classify(%q) err = %v, want ErrNoSeasonAnchor", input, err)
		}
	}
}
