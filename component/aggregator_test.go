package component

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/healthkit/errors"
	"github.com/kbukum/healthkit/logger"
)

// fakeComponent implements HealthComponent for testing.
type fakeComponent struct {
	name         string
	status       HealthStatus
	err          error
	delay        time.Duration
	checkPanic   any
	handlerErr   error
	handlerPanic any

	mu      sync.Mutex
	handled []error
	checks  int
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) CheckHealth(ctx context.Context) (HealthStatus, error) {
	f.mu.Lock()
	f.checks++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return StatusUnhealthy, ctx.Err()
		}
	}
	if f.checkPanic != nil {
		panic(f.checkPanic)
	}
	return f.status, f.err
}

func (f *fakeComponent) HandleFailure(ctx context.Context, err error) error {
	f.mu.Lock()
	f.handled = append(f.handled, err)
	f.mu.Unlock()

	if f.handlerPanic != nil {
		panic(f.handlerPanic)
	}
	return f.handlerErr
}

func (f *fakeComponent) handledErrors() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.handled...)
}

func healthy(name string) *fakeComponent {
	return &fakeComponent{name: name, status: StatusHealthy}
}

func failing(name string, err error) *fakeComponent {
	return &fakeComponent{name: name, err: err}
}

func newTestAggregator(cs []HealthComponent, opts ...Option) *Aggregator {
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	return NewAggregator(cs, opts...)
}

func TestAggregator_OneEntryPerDistinctName(t *testing.T) {
	var cs []HealthComponent
	for i := 0; i < 10; i++ {
		cs = append(cs, healthy(fmt.Sprintf("c%d", i)))
	}

	got := newTestAggregator(cs).Health(context.Background())
	if len(got) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(got))
	}
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("c%d", i)
		if got[name] != StatusHealthy {
			t.Errorf("expected %s healthy, got %q", name, got[name])
		}
	}
}

func TestAggregator_SuccessfulStatusPassesThrough(t *testing.T) {
	cs := []HealthComponent{
		&fakeComponent{name: "a", status: StatusHealthy},
		&fakeComponent{name: "b", status: StatusDegraded},
		&fakeComponent{name: "c", status: StatusUnhealthy},
	}

	got := newTestAggregator(cs).Health(context.Background())
	want := map[string]HealthStatus{"a": StatusHealthy, "b": StatusDegraded, "c": StatusUnhealthy}
	for name, status := range want {
		if got[name] != status {
			t.Errorf("%s: expected %q, got %q", name, status, got[name])
		}
	}
}

func TestAggregator_FailedCheckIsUnhealthyAndHandledOnce(t *testing.T) {
	checkErr := fmt.Errorf("connection refused")
	c := failing("db", checkErr)

	got := newTestAggregator([]HealthComponent{c}).Health(context.Background())
	if got["db"] != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", got["db"])
	}

	handled := c.handledErrors()
	if len(handled) != 1 {
		t.Fatalf("expected handler called once, got %d", len(handled))
	}
	if handled[0] != checkErr {
		t.Errorf("expected handler to receive the raised error, got %v", handled[0])
	}
}

func TestAggregator_HandlerNotCalledOnSuccess(t *testing.T) {
	c := &fakeComponent{name: "db", status: StatusDegraded}
	newTestAggregator([]HealthComponent{c}).Health(context.Background())

	if n := len(c.handledErrors()); n != 0 {
		t.Errorf("expected no handler calls, got %d", n)
	}
}

func TestAggregator_FailureIsolation(t *testing.T) {
	a := healthy("A")
	b := failing("B", fmt.Errorf("boom"))

	got := newTestAggregator([]HealthComponent{a, b}).Health(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got["A"] != StatusHealthy {
		t.Errorf("expected A healthy, got %q", got["A"])
	}
	if got["B"] != StatusUnhealthy {
		t.Errorf("expected B unhealthy, got %q", got["B"])
	}
}

func TestAggregator_DBAndCacheScenario(t *testing.T) {
	db := healthy("db")
	cache := failing("cache", fmt.Errorf("timeout"))

	got := newTestAggregator([]HealthComponent{db, cache}).Health(context.Background())
	if got["db"] != StatusHealthy || got["cache"] != StatusUnhealthy {
		t.Errorf("expected {db: healthy, cache: unhealthy}, got %v", got)
	}

	handled := cache.handledErrors()
	if len(handled) != 1 {
		t.Fatalf("expected cache handler called once, got %d", len(handled))
	}
	if handled[0].Error() != "timeout" {
		t.Errorf("expected handler error message 'timeout', got %q", handled[0].Error())
	}
}

func TestAggregator_RunsChecksConcurrently(t *testing.T) {
	const delay = 400 * time.Millisecond
	var cs []HealthComponent
	for i := 0; i < 4; i++ {
		cs = append(cs, &fakeComponent{name: fmt.Sprintf("slow-%d", i), status: StatusHealthy, delay: delay})
	}

	start := time.Now()
	got := newTestAggregator(cs).Health(context.Background())
	elapsed := time.Since(start)

	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	if elapsed >= 3*delay {
		t.Errorf("expected ~%v total, took %v (sequential would be %v)", delay, elapsed, 4*delay)
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	agg := newTestAggregator([]HealthComponent{
		healthy("a"),
		failing("b", fmt.Errorf("down")),
		&fakeComponent{name: "c", status: StatusDegraded},
	})

	first := agg.Health(context.Background())
	second := agg.Health(context.Background())
	if len(first) != len(second) {
		t.Fatalf("expected same size, got %d and %d", len(first), len(second))
	}
	for name, status := range first {
		if second[name] != status {
			t.Errorf("%s: %q then %q", name, status, second[name])
		}
	}
}

func TestAggregator_Empty(t *testing.T) {
	got := newTestAggregator(nil).Health(context.Background())
	if got == nil {
		t.Fatal("expected empty map, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 entries, got %d", len(got))
	}

	report := newTestAggregator([]HealthComponent{}).Report(context.Background())
	if report.Status != StatusHealthy {
		t.Errorf("expected empty report healthy, got %q", report.Status)
	}
}

func TestAggregator_HandlerErrorIsSwallowed(t *testing.T) {
	checkErr := fmt.Errorf("ping failed")
	handlerErr := fmt.Errorf("alert sink unreachable")
	bad := &fakeComponent{name: "bad", err: checkErr, handlerErr: handlerErr}
	good := healthy("good")

	report := newTestAggregator([]HealthComponent{bad, good}).Report(context.Background())
	h, ok := report.Component("bad")
	if !ok {
		t.Fatal("expected result for bad")
	}
	if h.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", h.Status)
	}
	if !apperrors.HasCode(h.Error, apperrors.ErrCodeHandlerFailed) {
		t.Errorf("expected HANDLER_FAILED, got %v", h.Error)
	}
	if !stderrors.Is(h.Error, handlerErr) || !stderrors.Is(h.Error, checkErr) {
		t.Errorf("expected both errors in chain, got %v", h.Error)
	}
	if report.Components["good"].Status != StatusHealthy {
		t.Error("expected good component unaffected")
	}
}

func TestAggregator_HandlerPanicIsSwallowed(t *testing.T) {
	bad := &fakeComponent{name: "bad", err: fmt.Errorf("x"), handlerPanic: "handler exploded"}

	got := newTestAggregator([]HealthComponent{bad, healthy("good")}).Report(context.Background())
	if got.Components["bad"].Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", got.Components["bad"].Status)
	}
	if !apperrors.HasCode(got.Components["bad"].Error, apperrors.ErrCodeHandlerFailed) {
		t.Errorf("expected HANDLER_FAILED, got %v", got.Components["bad"].Error)
	}
	if got.Components["good"].Status != StatusHealthy {
		t.Error("expected good component unaffected")
	}
}

func TestAggregator_CheckPanicIsAFailure(t *testing.T) {
	c := &fakeComponent{name: "p", checkPanic: "nil pointer"}

	report := newTestAggregator([]HealthComponent{c}).Report(context.Background())
	h := report.Components["p"]
	if h.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", h.Status)
	}
	handled := c.handledErrors()
	if len(handled) != 1 {
		t.Fatalf("expected handler called once, got %d", len(handled))
	}
	if !apperrors.HasCode(handled[0], apperrors.ErrCodeCheckPanic) {
		t.Errorf("expected CHECK_PANIC passed to handler, got %v", handled[0])
	}
}

func TestAggregator_InvalidStatusIsAFailure(t *testing.T) {
	c := &fakeComponent{name: "odd", status: HealthStatus("sideways")}

	report := newTestAggregator([]HealthComponent{c}).Report(context.Background())
	if report.Components["odd"].Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", report.Components["odd"].Status)
	}
	if !apperrors.HasCode(report.Components["odd"].Error, apperrors.ErrCodeInvalidStatus) {
		t.Errorf("expected INVALID_STATUS, got %v", report.Components["odd"].Error)
	}
	if len(c.handledErrors()) != 1 {
		t.Error("expected handler to be called for invalid status")
	}
}

func TestAggregator_CheckErrorWrappedAsCheckFailed(t *testing.T) {
	raw := fmt.Errorf("refused")
	report := newTestAggregator([]HealthComponent{failing("db", raw)}).Report(context.Background())
	h := report.Components["db"]

	if !apperrors.HasCode(h.Error, apperrors.ErrCodeCheckFailed) {
		t.Errorf("expected CHECK_FAILED, got %v", h.Error)
	}
	if !stderrors.Is(h.Error, raw) {
		t.Error("expected raw error in chain")
	}
	if h.Message != "refused" {
		t.Errorf("expected message 'refused', got %q", h.Message)
	}
	if !h.Failed() {
		t.Error("expected Failed() true")
	}
}

func TestAggregator_MaxConcurrency(t *testing.T) {
	var inFlight, peak int32
	var cs []HealthComponent
	for i := 0; i < 6; i++ {
		cs = append(cs, NewFuncComponent(fmt.Sprintf("c%d", i), func(ctx context.Context) (HealthStatus, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return StatusHealthy, nil
		}))
	}

	got := newTestAggregator(cs, WithMaxConcurrency(2)).Health(context.Background())
	if len(got) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(got))
	}
	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent checks, saw %d", p)
	}
}

func TestAggregator_DuplicateNamesLastWriteWins(t *testing.T) {
	cs := []HealthComponent{
		&fakeComponent{name: "dup", status: StatusHealthy},
		&fakeComponent{name: "dup", status: StatusDegraded},
	}

	got := newTestAggregator(cs).Health(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got["dup"] != StatusHealthy && got["dup"] != StatusDegraded {
		t.Errorf("expected one of the written statuses, got %q", got["dup"])
	}
}

func TestAggregator_CopiesComponentList(t *testing.T) {
	cs := []HealthComponent{healthy("a")}
	agg := newTestAggregator(cs)
	cs[0] = healthy("b")

	got := agg.Health(context.Background())
	if _, ok := got["a"]; !ok {
		t.Errorf("expected membership fixed at construction, got %v", got)
	}
	if len(agg.Components()) != 1 {
		t.Errorf("expected 1 component, got %d", len(agg.Components()))
	}
}

func TestAggregator_CancelledContextStillHandlesFailure(t *testing.T) {
	c := &fakeComponent{name: "slow", status: StatusHealthy, delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestAggregator([]HealthComponent{c}).Health(ctx)
	if got["slow"] != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %q", got["slow"])
	}
	handled := c.handledErrors()
	if len(handled) != 1 || !stderrors.Is(handled[0], context.Canceled) {
		t.Errorf("expected handler to receive context.Canceled, got %v", handled)
	}
}

func TestAggregator_ObserverSeesEveryCheck(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]HealthStatus{}
	agg := newTestAggregator(
		[]HealthComponent{healthy("a"), failing("b", fmt.Errorf("x"))},
		WithObserver(func(h Health) {
			mu.Lock()
			seen[h.Name] = h.Status
			mu.Unlock()
		}),
	)

	agg.Health(context.Background())
	if len(seen) != 2 || seen["a"] != StatusHealthy || seen["b"] != StatusUnhealthy {
		t.Errorf("unexpected observed results: %v", seen)
	}
}

func TestAggregator_ReportMetadata(t *testing.T) {
	agg := newTestAggregator(
		[]HealthComponent{healthy("a"), &fakeComponent{name: "b", status: StatusDegraded}},
		WithService("healthd", "1.2.3"),
	)

	report := agg.Report(context.Background())
	if _, err := uuid.Parse(report.ID); err != nil {
		t.Errorf("expected UUID report ID, got %q", report.ID)
	}
	if report.Service != "healthd" || report.Version != "1.2.3" {
		t.Errorf("unexpected service/version: %q %q", report.Service, report.Version)
	}
	if report.Status != StatusDegraded {
		t.Errorf("expected overall degraded, got %q", report.Status)
	}
	if report.Healthy() {
		t.Error("expected Healthy() false")
	}
	if report.CheckedAt.IsZero() {
		t.Error("expected CheckedAt set")
	}
	if names := report.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected sorted names [a b], got %v", names)
	}

	other := agg.Report(context.Background())
	if other.ID == report.ID {
		t.Error("expected a fresh ID per report")
	}
}

func TestAggregator_ReportJSON(t *testing.T) {
	report := newTestAggregator([]HealthComponent{
		healthy("db"),
		failing("cache", fmt.Errorf("timeout")),
	}).Report(context.Background())

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		DurationMs float64 `json:"duration_ms"`
		Components map[string]struct {
			Status    string `json:"status"`
			Message   string `json:"message"`
			ErrorCode string `json:"error_code"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Status != "unhealthy" {
		t.Errorf("expected overall unhealthy, got %q", decoded.Status)
	}
	if decoded.Components["cache"].ErrorCode != string(apperrors.ErrCodeCheckFailed) {
		t.Errorf("expected CHECK_FAILED code, got %q", decoded.Components["cache"].ErrorCode)
	}
	if decoded.Components["cache"].Message != "timeout" {
		t.Errorf("expected message timeout, got %q", decoded.Components["cache"].Message)
	}
	if decoded.Components["db"].ErrorCode != "" {
		t.Errorf("expected no error code for db, got %q", decoded.Components["db"].ErrorCode)
	}
	if !strings.Contains(string(data), `"duration_ms"`) {
		t.Error("expected duration_ms in JSON")
	}
}

func TestAggregator_ReportFailed(t *testing.T) {
	report := newTestAggregator([]HealthComponent{
		healthy("a"),
		failing("z", fmt.Errorf("1")),
		failing("m", fmt.Errorf("2")),
	}).Report(context.Background())

	failed := report.Failed()
	if len(failed) != 2 || failed[0].Name != "m" || failed[1].Name != "z" {
		t.Errorf("expected failed [m z], got %+v", failed)
	}
}

func TestAggregator_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	agg := newTestAggregator(
		[]HealthComponent{healthy("a"), failing("b", fmt.Errorf("x"))},
		WithTracer(tp.Tracer("test")),
	)
	agg.Report(context.Background())

	spans := recorder.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 1 report + 2 check spans, got %d", len(spans))
	}

	var report sdktrace.ReadOnlySpan
	checks := 0
	for _, s := range spans {
		switch s.Name() {
		case "health.report":
			report = s
		case "health.check":
			checks++
		}
	}
	if report == nil || checks != 2 {
		t.Fatalf("unexpected spans: report=%v checks=%d", report != nil, checks)
	}
	for _, s := range spans {
		if s.Name() == "health.check" && s.Parent().SpanID() != report.SpanContext().SpanID() {
			t.Error("expected check spans to be children of the report span")
		}
	}
}

func TestCheck_Standalone(t *testing.T) {
	h := Check(context.Background(), failing("x", fmt.Errorf("down")))
	if h.Status != StatusUnhealthy || h.Name != "x" {
		t.Errorf("unexpected result: %+v", h)
	}

	h = Check(context.Background(), healthy("y"))
	if h.Status != StatusHealthy || h.Failed() {
		t.Errorf("unexpected result: %+v", h)
	}
}

func TestAggregator_CheckSingle(t *testing.T) {
	a := healthy("a")
	b := failing("b", fmt.Errorf("down"))
	agg := newTestAggregator([]HealthComponent{a, b})

	h, ok := agg.Check(context.Background(), "b")
	if !ok {
		t.Fatal("expected b to be found")
	}
	if h.Status != StatusUnhealthy || len(b.handledErrors()) != 1 {
		t.Errorf("expected wrapped failure for b, got %+v", h)
	}
	if a.checks != 0 {
		t.Error("expected only the named component to be checked")
	}

	if _, ok := agg.Check(context.Background(), "missing"); ok {
		t.Error("expected unknown name to report false")
	}
}
