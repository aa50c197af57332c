package oddsapi

import "strconv"

// Score is one entry from the scores endpoint. Scores stay empty until the
// provider has data; Completed flips once the event is final.
type Score struct {
	ID        string      `json:"id"`
	SportKey  string      `json:"sport_key"`
	HomeTeam  string      `json:"home_team"`
	AwayTeam  string      `json:"away_team"`
	Completed bool        `json:"completed"`
	Scores    []SideScore `json:"scores"`
}

// SideScore is the final score of one named side. The provider sends the
// score as a string.
type SideScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// SideScoreValue returns the numeric score for the given side name.
func (s *Score) SideScoreValue(name string) (int, bool) {
	for _, side := range s.Scores {
		if side.Name == name {
			v, err := strconv.Atoi(side.Score)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
