package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rty-renty/SuanMing/internal/app"
	"github.com/rty-renty/SuanMing/internal/domain"
	"github.com/rty-renty/SuanMing/internal/ports"
)

type mockOracle struct {
	out   ports.DivineOutput
	err   error
	delay time.Duration

	mu     sync.Mutex
	calls  int
	gotKey string
}

func (m *mockOracle) Divine(_ context.Context, apiKey string, _ ports.DivineInput) (ports.DivineOutput, error) {
	m.mu.Lock()
	m.calls++
	m.gotKey = apiKey
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.out, m.err
}

type fixedCredentials struct{ key string }

func (c fixedCredentials) Resolve() (string, bool) { return c.key, c.key != "" }

const testFloor = 30 * time.Millisecond

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func oracleFortune() domain.FortuneResult {
	return domain.FortuneResult{
		SpiritRoot:    "太阴幽荧体",
		Realm:         "仙帝",
		Element:       "弱水三千",
		Poem:          "一\n二\n三\n四",
		Analysis:      "道友机缘深厚。",
		LuckyArtifact: "东皇钟",
	}
}

func testRequest() app.DivineRequest {
	return app.DivineRequest{Name: "道友甲", BirthDate: "2000-01-01"}
}

func TestDivine_OracleSuccess(t *testing.T) {
	oracle := &mockOracle{out: ports.DivineOutput{Fortune: oracleFortune(), Model: "gemini-2.5-flash"}}
	svc := app.NewDivinationService(oracle, fixedCredentials{key: "k"}, testFloor, discardLogger())

	resp := svc.Divine(context.Background(), testRequest())

	if resp.Source != domain.SourceOracle {
		t.Errorf("expected oracle source, got %s", resp.Source)
	}
	if resp.Fortune != oracleFortune() {
		t.Errorf("unexpected fortune: %+v", resp.Fortune)
	}
	if resp.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected model: %s", resp.Model)
	}
	if oracle.gotKey != "k" {
		t.Errorf("expected resolved key to be passed, got %q", oracle.gotKey)
	}
}

func TestDivine_FallbackRouting(t *testing.T) {
	want := domain.Generate("道友甲", "2000-01-01")

	cases := []struct {
		name   string
		oracle *mockOracle
		creds  ports.CredentialResolver
	}{
		{"no credential", &mockOracle{out: ports.DivineOutput{Fortune: oracleFortune()}}, fixedCredentials{}},
		{"network error", &mockOracle{err: errors.New("dial tcp: connection refused")}, fixedCredentials{key: "k"}},
		{"malformed json", &mockOracle{err: domain.ErrInvalidLLMJSON}, fixedCredentials{key: "k"}},
		{"incomplete fortune", &mockOracle{out: ports.DivineOutput{Fortune: domain.FortuneResult{Realm: "仙帝"}}}, fixedCredentials{key: "k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewDivinationService(tc.oracle, tc.creds, testFloor, discardLogger())

			resp := svc.Divine(context.Background(), testRequest())

			if resp.Fortune != want {
				t.Errorf("expected fallback fortune %+v, got %+v", want, resp.Fortune)
			}
			if resp.Source != domain.SourceFallback {
				t.Errorf("expected fallback source, got %s", resp.Source)
			}
			if resp.Model != "" {
				t.Errorf("expected no model for fallback, got %s", resp.Model)
			}
		})
	}
}

func TestDivine_NoCredentialSkipsOracle(t *testing.T) {
	oracle := &mockOracle{}
	svc := app.NewDivinationService(oracle, fixedCredentials{}, testFloor, discardLogger())

	start := time.Now()
	resp := svc.Divine(context.Background(), testRequest())

	if oracle.calls != 0 {
		t.Errorf("expected oracle to be skipped, got %d calls", oracle.calls)
	}
	if resp.Fortune != domain.Generate("道友甲", "2000-01-01") {
		t.Errorf("unexpected fortune: %+v", resp.Fortune)
	}
	if elapsed := time.Since(start); elapsed < testFloor {
		t.Errorf("returned after %v, before the %v floor", elapsed, testFloor)
	}
}

func TestDivine_NilOracle(t *testing.T) {
	svc := app.NewDivinationService(nil, fixedCredentials{key: "k"}, 0, discardLogger())

	resp := svc.Divine(context.Background(), testRequest())
	if resp.Source != domain.SourceFallback {
		t.Errorf("expected fallback source, got %s", resp.Source)
	}
}

func TestDivine_DisabledOracleIsNotAMissingKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := app.NewDivinationService(nil, fixedCredentials{key: "k"}, 0, logger)

	resp := svc.Divine(context.Background(), testRequest())

	if resp.Source != domain.SourceFallback {
		t.Errorf("expected fallback source, got %s", resp.Source)
	}
	logs := buf.String()
	if strings.Contains(logs, "API key is missing") {
		t.Errorf("disabled oracle logged as missing key: %s", logs)
	}
	if !strings.Contains(logs, "level=DEBUG") || !strings.Contains(logs, "remote oracle disabled") {
		t.Errorf("expected a debug line for the disabled oracle, got: %s", logs)
	}
}

func TestDivine_MissingKeyWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := app.NewDivinationService(&mockOracle{}, fixedCredentials{}, 0, logger)

	svc.Divine(context.Background(), testRequest())

	if logs := buf.String(); !strings.Contains(logs, "level=WARN") || !strings.Contains(logs, "API key is missing") {
		t.Errorf("expected a missing-key warning, got: %s", logs)
	}
}

func TestDivine_FloorGuarantee(t *testing.T) {
	oracle := &mockOracle{out: ports.DivineOutput{Fortune: oracleFortune()}}
	svc := app.NewDivinationService(oracle, fixedCredentials{key: "k"}, testFloor, discardLogger())

	start := time.Now()
	resp := svc.Divine(context.Background(), testRequest())
	elapsed := time.Since(start)

	if elapsed < testFloor {
		t.Errorf("returned after %v, before the %v floor", elapsed, testFloor)
	}
	if resp.LatencyMS < testFloor.Milliseconds() {
		t.Errorf("reported latency %dms below floor", resp.LatencyMS)
	}
}

func TestDivine_WaitsForSlowOracle(t *testing.T) {
	slow := 3 * testFloor
	oracle := &mockOracle{out: ports.DivineOutput{Fortune: oracleFortune()}, delay: slow}
	svc := app.NewDivinationService(oracle, fixedCredentials{key: "k"}, testFloor, discardLogger())

	start := time.Now()
	resp := svc.Divine(context.Background(), testRequest())

	if elapsed := time.Since(start); elapsed < slow {
		t.Errorf("returned after %v, before the oracle finished (%v)", elapsed, slow)
	}
	if resp.Source != domain.SourceOracle {
		t.Errorf("expected oracle source, got %s", resp.Source)
	}
}

func TestDivine_CanceledContextKeepsFloor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := &mockOracle{err: context.Canceled}
	svc := app.NewDivinationService(oracle, fixedCredentials{key: "k"}, testFloor, discardLogger())

	start := time.Now()
	resp := svc.Divine(ctx, testRequest())

	if elapsed := time.Since(start); elapsed < testFloor {
		t.Errorf("returned after %v, before the %v floor", elapsed, testFloor)
	}
	if err := resp.Fortune.Validate(); err != nil {
		t.Errorf("expected complete fortune: %v", err)
	}
}

func TestDivine_ConcurrentRequestsAreIndependent(t *testing.T) {
	svc := app.NewDivinationService(nil, fixedCredentials{}, time.Millisecond, discardLogger())

	names := []string{"道友甲", "道友乙", "Li", "Zoë"}
	var wg sync.WaitGroup
	results := make([]app.DivineResponse, len(names))
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Divine(context.Background(), app.DivineRequest{Name: name, BirthDate: "2000-01-01"})
		}()
	}
	wg.Wait()

	for i, name := range names {
		if want := domain.Generate(name, "2000-01-01"); results[i].Fortune != want {
			t.Errorf("%s: expected %+v, got %+v", name, want, results[i].Fortune)
		}
	}
}
