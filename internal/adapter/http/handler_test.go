package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shopeelife/internal/adapter/identity/jwtauth"
	metricsinmem "shopeelife/internal/adapter/metrics/inmemory"
	"shopeelife/internal/adapter/metrics/prom"
	"shopeelife/internal/adapter/repo/memory"
	"shopeelife/internal/app/game"
	"shopeelife/internal/app/ports"
	"shopeelife/internal/app/session"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/prometheus/client_golang/prometheus"
)

type testServer struct {
	hertz *server.Hertz
	game  *game.Service
	kpi   *metricsinmem.Recorder
}

func newTestServer(t *testing.T, identity ports.IdentityProvider) testServer {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.ClockTick = 0
	cfg.ActivityTick = 0
	cfg.SaveDebounce = time.Hour
	cfg.Session.EventChance = 0
	cfg.Session.ThoughtChance = 0

	kpi := metricsinmem.NewRecorder()
	reg := prometheus.NewRegistry()
	svc := game.NewService(memory.NewProgressRepo(memory.NewStore()), kpi, nil, cfg)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	prom.NewRecorder(reg)
	h := Handler{Game: svc, Identity: identity, KPI: kpi, Metrics: reg}
	s := server.New()
	h.RegisterRoutes(s)
	return testServer{hertz: s, game: svc, kpi: kpi}
}

func (ts testServer) do(method, path, body string, headers ...ut.Header) (int, []byte) {
	var b *ut.Body
	if body != "" {
		b = &ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}
	}
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := ut.PerformRequest(ts.hertz.Engine, method, path, b, headers...).Result()
	return resp.StatusCode(), resp.Body()
}

func asUser(id string) ut.Header {
	return ut.Header{Key: userIDHeader, Value: id}
}

func decodeResult(t *testing.T, raw []byte) game.Result {
	t.Helper()
	var res game.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshal result: %v (%s)", err, raw)
	}
	return res
}

func TestOpenSessionReturnsState(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})

	status, raw := ts.do(consts.MethodPost, "/api/session", "", asUser("alice"))
	if status != consts.StatusOK {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", status, consts.StatusOK, raw)
	}
	var view session.View
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	if view.UserID != "alice" {
		t.Fatalf("unexpected user id %q", view.UserID)
	}
	if view.Ledger.Currency != 100 || view.Ledger.Level != 1 {
		t.Fatalf("expected default ledger, got %+v", view.Ledger)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	for _, key := range []string{"clock", "ledger", "next_level_at", "quests", "blocker", "lunch_taken"} {
		if _, ok := generic[key]; !ok {
			t.Fatalf("expected key %q in state response", key)
		}
	}
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})

	status, raw := ts.do(consts.MethodGet, "/api/session/state", "")
	if status != consts.StatusUnauthorized {
		t.Fatalf("status mismatch: got=%d want=%d", status, consts.StatusUnauthorized)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["error"]["message"], game.MsgLogin; got != want {
		t.Fatalf("message mismatch: got=%q want=%q", got, want)
	}
	if ts.game.ActiveSessions() != 0 {
		t.Fatalf("expected no session for anonymous caller")
	}
}

func TestCommandsReportRejectionsInBody(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})
	user := asUser("bob")

	status, raw := ts.do(consts.MethodPost, "/api/shop/buy", `{"item_id":"coffee"}`, user)
	if status != consts.StatusOK {
		t.Fatalf("status mismatch: got=%d body=%s", status, raw)
	}
	if res := decodeResult(t, raw); !res.Success {
		t.Fatalf("expected purchase to succeed, got %+v", res)
	}

	// A new day starts at 09:00, before the office opens.
	status, raw = ts.do(consts.MethodPost, "/api/activity/start", `{"activity_id":"weekly-report"}`, user)
	if status != consts.StatusOK {
		t.Fatalf("status mismatch: got=%d body=%s", status, raw)
	}
	res := decodeResult(t, raw)
	if res.Success || res.Code != game.CodeRejected || res.Message == "" {
		t.Fatalf("expected rejection with message, got %+v", res)
	}

	status, raw = ts.do(consts.MethodPost, "/api/chat", `{"text":"morning!"}`, user)
	if status != consts.StatusOK || !decodeResult(t, raw).Success {
		t.Fatalf("expected chat to succeed, status=%d body=%s", status, raw)
	}

	snap := ts.kpi.Snapshot()
	if snap.CommandSuccess != 2 || snap.CommandRejected != 1 {
		t.Fatalf("unexpected kpi snapshot %+v", snap)
	}
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})

	status, raw := ts.do(consts.MethodPost, "/api/navigate", `{"location_id":`, asUser("carol"))
	if status != consts.StatusBadRequest {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", status, consts.StatusBadRequest, raw)
	}
}

func TestCloseSessionFlushesAndForgets(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})
	user := asUser("dave")

	if status, raw := ts.do(consts.MethodPost, "/api/session", "", user); status != consts.StatusOK {
		t.Fatalf("open failed: %d %s", status, raw)
	}
	if ts.game.ActiveSessions() != 1 {
		t.Fatalf("expected one active session")
	}
	status, raw := ts.do(consts.MethodDelete, "/api/session", "", user)
	if status != consts.StatusOK || !decodeResult(t, raw).Success {
		t.Fatalf("close failed: %d %s", status, raw)
	}
	if ts.game.ActiveSessions() != 0 {
		t.Fatalf("expected session to be closed")
	}
}

func TestBearerTokenIdentity(t *testing.T) {
	provider, err := jwtauth.New("handler-secret", nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	token, err := provider.Sign("erin", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ts := newTestServer(t, provider)

	status, raw := ts.do(consts.MethodGet, "/api/session/state", "", ut.Header{Key: authorizationHeader, Value: "Bearer " + token})
	if status != consts.StatusOK {
		t.Fatalf("status mismatch: got=%d body=%s", status, raw)
	}

	status, _ = ts.do(consts.MethodGet, "/api/session/state", "", asUser("erin"))
	if status != consts.StatusUnauthorized {
		t.Fatalf("expected header identity to be refused, got %d", status)
	}
}

func TestPreflightAndOpsRoutes(t *testing.T) {
	ts := newTestServer(t, jwtauth.HeaderProvider{})

	status, _ := ts.do(consts.MethodOptions, "/api/session", "")
	if status != consts.StatusNoContent {
		t.Fatalf("preflight status mismatch: got=%d", status)
	}

	status, raw := ts.do(consts.MethodGet, "/ops/kpi", "")
	if status != consts.StatusOK {
		t.Fatalf("kpi status mismatch: got=%d", status)
	}
	var kpi map[string]any
	if err := json.Unmarshal(raw, &kpi); err != nil {
		t.Fatalf("unmarshal kpi: %v", err)
	}
	if _, ok := kpi["commands"]; !ok {
		t.Fatalf("expected commands in kpi response: %s", raw)
	}

	status, raw = ts.do(consts.MethodGet, "/metrics", "")
	if status != consts.StatusOK {
		t.Fatalf("metrics status mismatch: got=%d", status)
	}
	if !bytes.Contains(raw, []byte("shopeelife_progress_save_failures_total")) {
		t.Fatalf("expected save failure counter in metrics output")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q)=%q want %q", in, got, want)
		}
	}
}

func TestWriteError_NotAuthenticated(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, ports.ErrNotAuthenticated)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnauthorized; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["error"]["code"], game.CodeNotAuthenticated; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_Internal(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("boom"))

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteResult_StatusMapping(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{game.CodeOK, consts.StatusOK},
		{game.CodeRejected, consts.StatusOK},
		{game.CodeNotAuthenticated, consts.StatusUnauthorized},
		{game.CodeInternal, consts.StatusInternalServerError},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeResult(ctx, game.Result{Code: tc.code})
		if got := ctx.Response.StatusCode(); got != tc.want {
			t.Fatalf("code %s: status got=%d want=%d", tc.code, got, tc.want)
		}
	}
}
