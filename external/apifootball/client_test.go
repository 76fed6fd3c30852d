package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/locale"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

type recorderStub struct {
	mu   sync.Mutex
	errs []*usecase.ProviderError
}

func (r *recorderStub) RecordProviderError(_ context.Context, err *usecase.ProviderError) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recorderStub) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) (*Client, *recorderStub) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	recorder := &recorderStub{}
	cfg := ClientConfig{
		HTTPClient:    server.Client(),
		BaseURL:       server.URL,
		APIKey:        "secret-key",
		RatePerMinute: -1,
		ErrorRecorder: recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg), recorder
}

const fixturesBody = `{
  "errors": [],
  "results": 2,
  "response": [
    {
      "fixture": {"id": 1001, "date": "2026-01-15T19:30:00+09:00", "status": {"short": "2H", "elapsed": 67}},
      "league": {"id": 98, "name": "J1 League"},
      "teams": {"home": {"id": 290, "name": "Kawasaki Frontale", "logo": "k.png"}, "away": {"id": 281, "name": "Vissel Kobe", "logo": "v.png"}},
      "goals": {"home": 1, "away": null},
      "events": [
        {"time": {"elapsed": 55}, "team": {"id": 290}, "player": {"name": "Ienaga"}, "assist": {"name": null}, "type": "Goal", "detail": "Normal Goal"},
        {"time": {"elapsed": 12}, "team": {"id": 281}, "player": {"name": "Osako"}, "assist": {}, "type": "Card", "detail": "Yellow Card"}
      ]
    },
    {
      "fixture": {"id": 1002, "date": "2026-01-15T12:00:00+00:00", "status": {"short": "NS", "elapsed": null}},
      "league": {"id": 39, "name": "Premier League"},
      "teams": {"home": {"id": 42, "name": "Arsenal"}, "away": {"id": 49, "name": "Chelsea"}},
      "goals": {"home": null, "away": null}
    }
  ]
}`

func TestClient_FixturesByDate_SendsAuthAndTransforms(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotHeader http.Header
	client, recorder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(fixturesBody))
	}, nil)

	matches, err := client.FixturesByDate(context.Background(), "2026-01-15", locale.Japanese)
	if err != nil {
		t.Fatalf("fixtures by date: %v", err)
	}

	if gotQuery.Get("date") != "2026-01-15" || gotQuery.Get("timezone") != "Asia/Tokyo" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if gotQuery.Has("from") || gotQuery.Has("to") {
		t.Fatalf("ranged query must not be used: %v", gotQuery)
	}
	if gotHeader.Get("x-apisports-key") != "secret-key" || gotHeader.Get("x-rapidapi-key") != "secret-key" {
		t.Fatalf("auth headers missing: %v", gotHeader)
	}
	if gotHeader.Get("x-rapidapi-host") == "" {
		t.Fatalf("host header missing")
	}
	if recorder.count() != 0 {
		t.Fatalf("empty errors array must not be recorded")
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	live := matches[0]
	if live.Status != match.StatusLive || live.Minute != 67 {
		t.Fatalf("unexpected live status: %s %d", live.Status, live.Minute)
	}
	if live.League != "Jリーグ" || live.HomeTeam.Name != "川崎フロンターレ" || live.HomeTeam.Short != "KAW" {
		t.Fatalf("unexpected localization: %+v", live)
	}
	if live.HomeScore != 1 || live.AwayScore != 0 {
		t.Fatalf("unexpected score %d-%d", live.HomeScore, live.AwayScore)
	}
	if len(live.Events) != 2 || live.Events[0].Minute != 12 || live.Events[1].Player != "Ienaga" {
		t.Fatalf("events not chronological: %+v", live.Events)
	}
	if matches[1].Status != match.StatusUpcoming || matches[1].League != "プレミアリーグ" {
		t.Fatalf("unexpected upcoming match: %+v", matches[1])
	}
}

func TestClient_Call_ClassifiesProviderErrorObject(t *testing.T) {
	t.Parallel()

	client, recorder := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"requests":"You have reached the request limit for the day"},"results":0,"response":[]}`))
	}, nil)

	result := client.Call(context.Background(), "/fixtures", url.Values{"date": {"2026-01-15"}})
	if result.Kind != ResultProviderError {
		t.Fatalf("expected provider error, got %s", result.Kind)
	}
	if !result.Provider.IsRateLimited() {
		t.Fatalf("expected rate limit detection, got %v", result.Provider.Details)
	}
	if recorder.count() != 1 {
		t.Fatalf("expected provider error to be recorded once, got %d", recorder.count())
	}

	_, err := client.FixturesByDate(context.Background(), "2026-01-16", locale.English)
	var perr *usecase.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if errors.Is(err, usecase.ErrTransportFailure) {
		t.Fatalf("provider error must not look like a transport failure")
	}
}

func TestClient_Call_ClassifiesProviderErrorArray(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":["Missing application key"],"response":[]}`))
	}, nil)

	result := client.Call(context.Background(), "/standings", nil)
	if result.Kind != ResultProviderError || result.Provider.Details["error0"] != "Missing application key" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClient_Call_NonSuccessStatusIsTransportFailure(t *testing.T) {
	t.Parallel()

	client, recorder := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}, nil)

	result := client.Call(context.Background(), "/fixtures", nil)
	if result.Kind != ResultTransportFailure || result.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !errors.Is(result.Err(), usecase.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", result.Err())
	}
	if recorder.count() != 0 {
		t.Fatalf("transport failures must not reach the provider error slot")
	}
}

func TestClient_Call_TimeoutIsTransportFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(cfg *ClientConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	result := client.Call(context.Background(), "/fixtures", nil)
	if result.Kind != ResultTransportFailure {
		t.Fatalf("expected transport failure on timeout, got %s", result.Kind)
	}
}

func TestClient_Call_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	received := make(chan struct{}, 4)
	release := make(chan struct{})
	releaseOnce := sync.OnceFunc(func() { close(release) })
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		received <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"errors": [], "response": [{"team": {"id": 290}}]}`))
	}, nil)
	t.Cleanup(releaseOnce)

	params := url.Values{"id": {"290"}}
	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan Result, 1)
	go func() { leader <- client.Call(leaderCtx, "/teams", params) }()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatalf("request never reached the server")
	}
	cancelLeader()

	select {
	case result := <-leader:
		if result.Kind != ResultTransportFailure || !errors.Is(result.Err(), context.Canceled) {
			t.Fatalf("expected cancelled caller to fail alone, got kind=%s err=%v", result.Kind, result.Err())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled caller kept waiting for the shared request")
	}

	follower := make(chan Result, 1)
	go func() { follower <- client.Call(context.Background(), "/teams", params) }()
	releaseOnce()

	select {
	case result := <-follower:
		if result.Kind != ResultSuccess {
			t.Fatalf("expected shared request to succeed for the other caller, got kind=%s err=%v", result.Kind, result.Err())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the other caller")
	}
}

func TestClient_Call_OpenBreakerShortCircuits(t *testing.T) {
	t.Parallel()

	var hits int
	var mu sync.Mutex
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	ctx := context.Background()
	client.Call(ctx, "/fixtures", url.Values{"date": {"a"}})
	client.Call(ctx, "/fixtures", url.Values{"date": {"b"}})
	result := client.Call(ctx, "/fixtures", url.Values{"date": {"c"}})

	if !errors.Is(result.Err(), usecase.ErrDependencyUnavailable) || !errors.Is(result.Err(), usecase.ErrTransportFailure) {
		t.Fatalf("expected open breaker failure, got %v", result.Err())
	}
	mu.Lock()
	defer mu.Unlock()
	if hits != 2 {
		t.Fatalf("expected breaker to stop the third request, hits=%d", hits)
	}
}

func TestClient_Standings_EmptyResponseIsEmptyResult(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("league") != "39" || r.URL.Query().Get("season") != "2025" {
			t.Errorf("unexpected query %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(`{"errors":[],"results":0,"response":[]}`))
	}, nil)

	_, err := client.Standings(context.Background(), 39, 2025)
	if !errors.Is(err, usecase.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestClient_Standings_MapsRows(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[],"response":[{"league":{"id":140,"season":2025,"standings":[[
			{"rank":1,"team":{"id":541,"name":"Real Madrid"},"points":40,"goalsDiff":25,"form":"WWWDW",
			 "all":{"played":16,"win":13,"draw":1,"lose":2,"goals":{"for":38,"against":13}}}
		]]}}]}`))
	}, nil)

	table, err := client.Standings(context.Background(), 140, 2025)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	row, ok := table.Find(541)
	if !ok {
		t.Fatalf("expected Real Madrid in table")
	}
	if row.Played != 16 || row.Won != 13 || row.GoalsFor != 38 || row.Form != "WWWDW" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestClient_Coach_EmptyIsNil(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, nil)

	coach, err := client.Coach(context.Background(), 42)
	if err != nil || coach != nil {
		t.Fatalf("expected nil coach without error, got %+v %v", coach, err)
	}
}
