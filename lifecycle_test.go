package weft_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

// bootRecorder collects lifecycle events across services.
type bootRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *bootRecorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *bootRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

type dbService struct {
	Log *bootRecorder `weft:""`
}

func (s *dbService) Start(ctx context.Context) error {
	s.Log.record("db:start")
	return nil
}

func (s *dbService) Stop(ctx context.Context) error {
	s.Log.record("db:stop")
	return nil
}

type apiService struct {
	DB  *dbService    `weft:""`
	Log *bootRecorder `weft:""`
}

func (s *apiService) Start(ctx context.Context) error {
	s.Log.record("api:start")
	return nil
}

func (s *apiService) Stop(ctx context.Context) error {
	s.Log.record("api:stop")
	return nil
}

type brokenStarter struct {
	Log *bootRecorder `weft:""`
}

func (s *brokenStarter) Start(ctx context.Context) error {
	s.Log.record("broken:start")
	return errors.New("port already bound")
}

type closingService struct {
	Log    *bootRecorder `weft:""`
	closed bool
}

func (s *closingService) Close() error {
	s.closed = true
	s.Log.record("closer:close")
	return nil
}

// stopperCloser implements both shutdown interfaces; Stop must win.
type stopperCloser struct {
	Log *bootRecorder `weft:""`
}

func (s *stopperCloser) Stop(ctx context.Context) error {
	s.Log.record("both:stop")
	return nil
}

func (s *stopperCloser) Close() error {
	s.Log.record("both:close")
	return nil
}

type failingStopper struct {
	name string
}

func (s *failingStopper) Stop(ctx context.Context) error {
	return errors.New(s.name + " refused to stop")
}

func newRecordedContainer(t *testing.T) (*weft.Container, *bootRecorder) {
	t.Helper()

	c := weft.New()
	rec := &bootRecorder{}
	weft.MustRegisterValue(c, rec, weft.WithName("recorder"))
	return c, rec
}

func TestStart_DependencyOrder(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[apiService](c)
	weft.MustRegister[dbService](c)

	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	assert.Equal(t, []string{"db:start", "api:start"}, rec.all(),
		"dependencies start before their dependents")
}

func TestStart_EagerSingletons(t *testing.T) {
	t.Parallel()

	c, _ := newRecordedContainer(t)
	weft.MustRegister[dbService](c)

	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	found := false
	for _, info := range c.Info() {
		if info.Name == "dbService" {
			found = true
			assert.True(t, info.Instantiated, "singletons are built during start")
		}
	}
	assert.True(t, found)
}

func TestStart_Twice(t *testing.T) {
	t.Parallel()

	c := weft.New()
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	err := c.Start(context.Background())
	assert.True(t, weft.IsContainerStarted(err))
}

func TestStart_ValidationFailure(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[cycNodeA](c)
	weft.MustRegister[cycNodeB](c)

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.True(t, weft.IsValidationFailed(err))

	// The container reverts to its bootstrap phase, so the wiring can
	// be fixed.
	_, err = weft.Register[Config](c)
	assert.NoError(t, err)
}

func TestStart_FailureRollsBack(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[dbService](c)
	weft.MustRegister[brokenStarter](c, weft.WithConstructor(func(db *dbService) *brokenStarter {
		// The dependency forces the broken service to start second.
		return &brokenStarter{}
	}))

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.True(t, weft.IsStartupFailed(err))
	assert.ErrorContains(t, err, "port already bound")

	assert.Equal(t, []string{"db:start", "broken:start", "db:stop"}, rec.all(),
		"started components are stopped in reverse on failure")

	_, regErr := weft.Register[Config](c)
	assert.NoError(t, regErr, "a failed start leaves the container in bootstrap")
}

func TestStop_ReverseOrder(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[apiService](c)
	weft.MustRegister[dbService](c)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop(context.Background()))

	assert.Equal(t, []string{"db:start", "api:start", "api:stop", "db:stop"}, rec.all())
}

func TestStop_WithoutStart(t *testing.T) {
	t.Parallel()

	c := weft.New()
	assert.NoError(t, c.Stop(context.Background()))
}

func TestStop_Closer(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[closingService](c)

	require.NoError(t, c.Start(context.Background()))
	svc := weft.MustLookup[*closingService](c)
	require.NoError(t, c.Stop(context.Background()))

	assert.True(t, svc.closed)
	assert.Equal(t, []string{"closer:close"}, rec.all())
}

func TestStop_StopperPreferredOverCloser(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[stopperCloser](c)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop(context.Background()))

	assert.Equal(t, []string{"both:stop"}, rec.all())
}

func TestStop_CollectsErrors(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &failingStopper{name: "alpha"}, weft.WithName("alpha"))
	weft.MustRegister[failingStopper](c, weft.WithName("beta"),
		weft.WithConstructor(func() *failingStopper { return &failingStopper{name: "beta"} }))
	weft.MustRegister[failingStopper](c, weft.WithName("gamma"),
		weft.WithConstructor(func() *failingStopper { return &failingStopper{name: "gamma"} }))

	require.NoError(t, c.Start(context.Background()))

	err := c.Stop(context.Background())
	require.Error(t, err)
	assert.True(t, weft.IsShutdownFailed(err))
	assert.ErrorContains(t, err, "beta refused to stop")
	assert.ErrorContains(t, err, "gamma refused to stop")
	assert.NotContains(t, err.Error(), "alpha refused to stop",
		"values are not stopped by the container")
}

func TestStop_SkipsUninstantiated(t *testing.T) {
	t.Parallel()

	c, rec := newRecordedContainer(t)
	weft.MustRegister[dbService](c, weft.WithScope(weft.Prototype))

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop(context.Background()))

	assert.Empty(t, rec.all(), "prototypes are neither started nor stopped")
}
