package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/riskibarqy/matchday/internal/app"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/observability"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/preference"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	os.Exit(runMain(strings.ToLower(strings.TrimSpace(os.Args[1])), os.Args[2:]))
}

func runMain(cmd string, args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if err := run(ctx, a, cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printAPIErrorBanner(a)
		return 1
	}
	printAPIErrorBanner(a)
	return 0
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	prefs, err := a.Preferences.Load(ctx)
	if err != nil {
		a.Logger.Warn("load preferences, using defaults", "error", err)
	}
	loc := prefs.Locale
	if loc == "" {
		loc = a.Config.DefaultLocale
	}

	switch cmd {
	case "watch":
		return runWatch(ctx, a, prefs, loc, args)
	case "fixtures", "favorites":
		date := time.Now().In(a.Config.FeedLocation).Format("2006-01-02")
		if len(args) > 0 {
			date = args[0]
		}
		list, err := a.Dashboard.FixturesByDate(ctx, date, loc)
		if cmd == "favorites" {
			list = prefs.FilterFavorites(list)
		}
		printMatches(os.Stdout, list, prefs)
		return err
	case "match":
		id, err := parseID(args, "match requires a fixture id")
		if err != nil {
			return err
		}
		detail, err := a.Dashboard.MatchDetail(ctx, id, loc)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, detail)
	case "team":
		id, err := parseID(args, "team requires a team id")
		if err != nil {
			return err
		}
		detail, err := a.Dashboard.TeamDetail(ctx, id, loc)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, detail)
	case "standings":
		leagueID, err := parseID(args, "standings requires a league id")
		if err != nil {
			return err
		}
		season, err := optionalInt(args, 1, "season")
		if err != nil {
			return err
		}
		result, err := a.Dashboard.LeagueStandings(ctx, leagueID, season)
		if err != nil {
			return err
		}
		if !result.Found {
			fmt.Fprintln(os.Stdout, "no standings available")
			return nil
		}
		printStandings(os.Stdout, result.Value, result.Season)
		return nil
	case "scorers":
		leagueID, err := parseID(args, "scorers requires a league id")
		if err != nil {
			return err
		}
		season, err := optionalInt(args, 1, "season")
		if err != nil {
			return err
		}
		limit, err := optionalInt(args, 2, "limit")
		if err != nil {
			return err
		}
		result, err := a.Dashboard.TopScorers(ctx, leagueID, season, limit)
		if err != nil {
			return err
		}
		if !result.Found {
			fmt.Fprintln(os.Stdout, "no top scorers available")
			return nil
		}
		printScorers(os.Stdout, result.Value, result.Season)
		return nil
	case "player":
		id, err := parseID(args, "player requires a player id")
		if err != nil {
			return err
		}
		season, err := optionalInt(args, 1, "season")
		if err != nil {
			return err
		}
		stats, err := a.Dashboard.PlayerStats(ctx, id, season)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, stats)
	case "season":
		fmt.Fprintln(os.Stdout, a.Dashboard.CurrentSeason())
		return nil
	case "leagues":
		printLeagues(os.Stdout, a.Dashboard.SupportedLeagues(loc))
		return nil
	case "prefs":
		return runPrefs(ctx, a.Preferences, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runWatch(ctx context.Context, a *app.App, prefs preference.Preferences, loc locale.Locale, args []string) error {
	if len(args) > 0 {
		duration, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid watch duration %q: %w", args[0], err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	stopProfiler, err := observability.InitPyroscope(a.Config, a.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			a.Logger.Warn("stop pyroscope", "error", err)
		}
	}()

	srv, err := observability.StartMetricsServer(a.Config, a.Registry, a.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := observability.StopMetricsServer(srv, a.Logger, 5*time.Second); err != nil {
			a.Logger.Warn("stop metrics server", "error", err)
		}
	}()

	updates := make(chan []match.Match, 1)
	unsubscribe := a.Broker.Subscribe(func(list []match.Match) {
		select {
		case updates <- list:
		default:
			// Drop the pending list; the newer one replaces it.
			select {
			case <-updates:
			default:
			}
			updates <- list
		}
	}, loc)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case list := <-updates:
			fmt.Fprintf(os.Stdout, "\n== %s (%d matches) ==\n", time.Now().In(a.Config.FeedLocation).Format("2006-01-02 15:04"), len(list))
			printMatches(os.Stdout, list, prefs)
			printAPIErrorBanner(a)
		}
	}
}

func runPrefs(ctx context.Context, store *preference.Store, args []string) error {
	if len(args) == 0 {
		prefs, err := store.Load(ctx)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, prefs)
	}
	if len(args) < 2 {
		return fmt.Errorf("prefs %s requires a value", args[0])
	}

	switch strings.ToLower(args[0]) {
	case "locale":
		loc, ok := locale.Parse(args[1])
		if !ok {
			return fmt.Errorf("unsupported locale %q", args[1])
		}
		return store.SetLocale(ctx, loc)
	case "theme":
		theme, err := preference.ParseTheme(args[1])
		if err != nil {
			return err
		}
		return store.SetTheme(ctx, theme)
	case "favorite":
		teamID, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return fmt.Errorf("invalid team id %q: %w", args[1], err)
		}
		favorites, added, err := store.ToggleFavorite(ctx, teamID)
		if err != nil {
			return err
		}
		state := "removed"
		if added {
			state = "added"
		}
		fmt.Fprintf(os.Stdout, "team %d %s, favorites: %v\n", teamID, state, favorites)
		return nil
	default:
		return fmt.Errorf("unknown preference %q", args[0])
	}
}

func parseID(args []string, missing string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s", missing)
	}
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return id, nil
}

// optionalInt reads args[idx], returning 0 when absent.
func optionalInt(args []string, idx int, name string) (int, error) {
	if len(args) <= idx {
		return 0, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(args[idx]))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, args[idx], err)
	}
	return value, nil
}

func printAPIErrorBanner(a *app.App) {
	perr, ok := a.Dashboard.LastAPIError()
	if !ok {
		return
	}
	fmt.Fprintf(os.Stderr, "! provider error on %s: %s\n", perr.Endpoint, perr.Summary())
	if perr.IsRateLimited() {
		fmt.Fprintln(os.Stderr, "! request quota exhausted, showing cached data")
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/matchfeed watch [duration]")
	fmt.Println("  go run ./cmd/matchfeed fixtures [YYYY-MM-DD]")
	fmt.Println("  go run ./cmd/matchfeed favorites [YYYY-MM-DD]")
	fmt.Println("  go run ./cmd/matchfeed match <fixture_id>")
	fmt.Println("  go run ./cmd/matchfeed team <team_id>")
	fmt.Println("  go run ./cmd/matchfeed standings <league_id> [season]")
	fmt.Println("  go run ./cmd/matchfeed scorers <league_id> [season] [limit]")
	fmt.Println("  go run ./cmd/matchfeed player <player_id> [season]")
	fmt.Println("  go run ./cmd/matchfeed season")
	fmt.Println("  go run ./cmd/matchfeed leagues")
	fmt.Println("  go run ./cmd/matchfeed prefs [locale <en|ja> | theme <dark|light> | favorite <team_id>]")
}
