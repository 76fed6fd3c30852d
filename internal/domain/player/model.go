package player

type Profile struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Injured     bool   `json:"injured"`
	Photo       string `json:"photo"`
}

type Games struct {
	Appearances int    `json:"appearances"`
	Lineups     int    `json:"lineups"`
	Minutes     int    `json:"minutes"`
	Position    string `json:"position"`
	Rating      string `json:"rating"`
	Captain     bool   `json:"captain"`
}

type Goals struct {
	Total    int `json:"total"`
	Conceded int `json:"conceded"`
	Assists  int `json:"assists"`
	Saves    int `json:"saves"`
}

type Passes struct {
	Total    int `json:"total"`
	Key      int `json:"key"`
	Accuracy int `json:"accuracy"`
}

type Tackles struct {
	Total         int `json:"total"`
	Blocks        int `json:"blocks"`
	Interceptions int `json:"interceptions"`
}

type Duels struct {
	Total int `json:"total"`
	Won   int `json:"won"`
}

type Dribbles struct {
	Attempts int `json:"attempts"`
	Success  int `json:"success"`
}

type Cards struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Statistics is one competition block of a player's season.
type Statistics struct {
	TeamID     int      `json:"teamId"`
	TeamName   string   `json:"teamName"`
	TeamLogo   string   `json:"teamLogo"`
	LeagueID   int      `json:"leagueId"`
	LeagueName string   `json:"leagueName"`
	Games      Games    `json:"games"`
	Goals      Goals    `json:"goals"`
	Passes     Passes   `json:"passes"`
	Tackles    Tackles  `json:"tackles"`
	Duels      Duels    `json:"duels"`
	Dribbles   Dribbles `json:"dribbles"`
	Cards      Cards    `json:"cards"`
}

type SeasonStats struct {
	Player     Profile      `json:"player"`
	Season     int          `json:"season"`
	Statistics []Statistics `json:"statistics"`
}

// Totals sums goals, assists and appearances across competitions.
func (s SeasonStats) Totals() (goals, assists, appearances int) {
	for _, st := range s.Statistics {
		goals += st.Goals.Total
		assists += st.Goals.Assists
		appearances += st.Games.Appearances
	}
	return goals, assists, appearances
}
