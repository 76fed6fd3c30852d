package apifootball

// envelope is the common reply wrapper; "errors" is inspected separately
// because its JSON type varies.
type envelope[T any] struct {
	Results  int `json:"results"`
	Response []T `json:"response"`
}

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type personRef struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Photo string  `json:"photo"`
}

type fixtureItem struct {
	Fixture struct {
		ID        int    `json:"id"`
		Referee   string `json:"referee"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Events     []eventItem      `json:"events"`
	Lineups    []lineupItem     `json:"lineups"`
	Statistics []teamStatsItem  `json:"statistics"`
	Players    []teamPlayerItem `json:"players"`
}

type eventItem struct {
	Time struct {
		Elapsed *int `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   teamRef   `json:"team"`
	Player personRef `json:"player"`
	Assist personRef `json:"assist"`
	Type   string    `json:"type"`
	Detail string    `json:"detail"`
}

type lineupPlayerItem struct {
	Player struct {
		ID     int     `json:"id"`
		Name   string  `json:"name"`
		Number *int    `json:"number"`
		Pos    string  `json:"pos"`
		Grid   *string `json:"grid"`
	} `json:"player"`
}

type lineupItem struct {
	Team        teamRef            `json:"team"`
	Formation   string             `json:"formation"`
	StartXI     []lineupPlayerItem `json:"startXI"`
	Substitutes []lineupPlayerItem `json:"substitutes"`
	Coach       personRef          `json:"coach"`
}

type teamStatsItem struct {
	Team       teamRef `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

type teamPlayerItem struct {
	Team    teamRef `json:"team"`
	Players []struct {
		Player     personRef `json:"player"`
		Statistics []struct {
			Games struct {
				Minutes *int    `json:"minutes"`
				Rating  *string `json:"rating"`
			} `json:"games"`
			Shots struct {
				Total *int `json:"total"`
			} `json:"shots"`
			Goals struct {
				Total   *int `json:"total"`
				Assists *int `json:"assists"`
			} `json:"goals"`
			Passes struct {
				Total *int `json:"total"`
			} `json:"passes"`
			Cards struct {
				Yellow *int `json:"yellow"`
				Red    *int `json:"red"`
			} `json:"cards"`
		} `json:"statistics"`
	} `json:"players"`
}

type standingsItem struct {
	League struct {
		ID        int             `json:"id"`
		Season    int             `json:"season"`
		Standings [][]standingRow `json:"standings"`
	} `json:"league"`
}

type standingRow struct {
	Rank      int     `json:"rank"`
	Team      teamRef `json:"team"`
	Points    int     `json:"points"`
	GoalsDiff int     `json:"goalsDiff"`
	Form      *string `json:"form"`
	All       struct {
		Played *int `json:"played"`
		Win    *int `json:"win"`
		Draw   *int `json:"draw"`
		Lose   *int `json:"lose"`
		Goals  struct {
			For     *int `json:"for"`
			Against *int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

type playerIdentity struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Firstname   *string `json:"firstname"`
	Lastname    *string `json:"lastname"`
	Age         *int    `json:"age"`
	Nationality *string `json:"nationality"`
	Height      *string `json:"height"`
	Weight      *string `json:"weight"`
	Injured     bool    `json:"injured"`
	Photo       string  `json:"photo"`
}

type playerStatsBlock struct {
	Team   teamRef `json:"team"`
	League struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
	} `json:"league"`
	Games struct {
		Appearences *int    `json:"appearences"`
		Lineups     *int    `json:"lineups"`
		Minutes     *int    `json:"minutes"`
		Position    *string `json:"position"`
		Rating      *string `json:"rating"`
		Captain     bool    `json:"captain"`
	} `json:"games"`
	Goals struct {
		Total    *int `json:"total"`
		Conceded *int `json:"conceded"`
		Assists  *int `json:"assists"`
		Saves    *int `json:"saves"`
	} `json:"goals"`
	Passes struct {
		Total    *int `json:"total"`
		Key      *int `json:"key"`
		Accuracy *int `json:"accuracy"`
	} `json:"passes"`
	Tackles struct {
		Total         *int `json:"total"`
		Blocks        *int `json:"blocks"`
		Interceptions *int `json:"interceptions"`
	} `json:"tackles"`
	Duels struct {
		Total *int `json:"total"`
		Won   *int `json:"won"`
	} `json:"duels"`
	Dribbles struct {
		Attempts *int `json:"attempts"`
		Success  *int `json:"success"`
	} `json:"dribbles"`
	Cards struct {
		Yellow *int `json:"yellow"`
		Red    *int `json:"red"`
	} `json:"cards"`
}

type playerItem struct {
	Player     playerIdentity     `json:"player"`
	Statistics []playerStatsBlock `json:"statistics"`
}

type teamItem struct {
	Team struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Founded *int   `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		Capacity *int   `json:"capacity"`
		Image    string `json:"image"`
	} `json:"venue"`
}

type squadItem struct {
	Players []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Age      *int   `json:"age"`
		Number   *int   `json:"number"`
		Position string `json:"position"`
		Photo    string `json:"photo"`
	} `json:"players"`
}

type coachItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}
