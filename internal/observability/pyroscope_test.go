package observability

import (
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/config"
)

func TestInitPyroscope_DisabledReturnsNoopStop(t *testing.T) {
	t.Parallel()

	stop, err := InitPyroscope(config.Config{}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if stop == nil {
		t.Fatalf("expected stop function")
	}
	if err := stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestPyroscopeConfig_Tags(t *testing.T) {
	t.Parallel()

	got := pyroscopeConfig(config.Config{
		AppEnv:                 config.EnvStage,
		ServiceName:            "matchday",
		CacheBackend:           config.CacheBackendBadger,
		PyroscopeAppName:       "matchday-watch",
		PyroscopeServerAddress: "http://localhost:4040",
		PyroscopeUploadRate:    10 * time.Second,
	})
	if got.ApplicationName != "matchday-watch" || got.ServerAddress != "http://localhost:4040" {
		t.Fatalf("unexpected target: app=%q server=%q", got.ApplicationName, got.ServerAddress)
	}
	if got.Tags["env"] != config.EnvStage || got.Tags["cache"] != config.CacheBackendBadger {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if got.UploadRate != 10*time.Second {
		t.Fatalf("unexpected upload rate: got=%s want=%s", got.UploadRate, 10*time.Second)
	}
}
