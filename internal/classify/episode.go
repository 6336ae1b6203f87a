package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// EpisodeRef identifies a regular episode inside a series.
type EpisodeRef struct {
	Season  int
	Episode int
}

// ErrNoEpisodeMarker is returned when a file name lacks the SxxEyy marker
// required for file-mode linking.
var ErrNoEpisodeMarker = errors.New("no SxxEyy episode marker in name")

var (
	episodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,3})`)
	seasonPattern  = regexp.MustCompile(`(?i)\bS(\d{1,2})`)
)

// ExtractEpisode parses both season and episode numbers from a file name.
// Both markers are required; absence of either fails the entry.
func ExtractEpisode(name string) (EpisodeRef, error) {
	match := episodePattern.FindStringSubmatch(name)
	if match == nil {
		return EpisodeRef{}, fmt.Errorf("extract %q: %w", name, ErrNoEpisodeMarker)
	}
	season, _ := strconv.Atoi(match[1])
	episode, _ := strconv.Atoi(match[2])
	return EpisodeRef{Season: season, Episode: episode}, nil
}

// ExtractSeason parses a season-only marker from a file name. Used in folder
// mode to decide which Season NN subfolder a file belongs to.
func ExtractSeason(name string) (int, bool) {
	match := seasonPattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	season, _ := strconv.Atoi(match[1])
	return season, true
}

// SeasonFolder renders the canonical, zero-padded season directory name.
func SeasonFolder(season int) string {
	return fmt.Sprintf("Season %02d", season)
}
