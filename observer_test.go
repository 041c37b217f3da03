package weft_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

type traceProbe struct{}

type obsWorker struct{ started bool }

func (w *obsWorker) Start(ctx context.Context) error {
	w.started = true
	return nil
}

func (w *obsWorker) Stop(ctx context.Context) error { return nil }

type obsFailing struct{}

func (f *obsFailing) Start(ctx context.Context) error {
	return errors.New("bind: address already in use")
}

type createEvent struct {
	trace     uuid.UUID
	component string
	err       error
}

func TestWithCreateObserver(t *testing.T) {
	t.Parallel()

	var events []createEvent
	c := weft.New(weft.WithCreateObserver(func(trace uuid.UUID, component string, duration time.Duration, err error) {
		events = append(events, createEvent{trace: trace, component: component, err: err})
	}))

	weft.MustRegister[Config](c)
	weft.MustRegister[Database](c)
	weft.MustRegister[Server](c)

	weft.MustLookup[*Server](c)

	require.Len(t, events, 3, "one event per construction, dependencies first")
	assert.Equal(t, "config", events[0].component)
	assert.Equal(t, "database", events[1].component)
	assert.Equal(t, "server", events[2].component)

	trace := events[0].trace
	assert.NotEqual(t, uuid.Nil, trace)
	for _, ev := range events {
		assert.Equal(t, trace, ev.trace, "nested constructions share the creation trace")
		assert.NoError(t, ev.err)
	}

	weft.MustLookup[*Server](c)
	assert.Len(t, events, 3, "cached singletons construct nothing")
}

func TestWithCreateObserver_SeparateLookupsSeparateTraces(t *testing.T) {
	t.Parallel()

	var events []createEvent
	c := weft.New(weft.WithCreateObserver(func(trace uuid.UUID, component string, duration time.Duration, err error) {
		events = append(events, createEvent{trace: trace, component: component})
	}))

	weft.MustRegister[Config](c)
	weft.MustRegister[Database](c, weft.WithScope(weft.Prototype))

	weft.MustLookup[*Database](c)
	weft.MustLookup[*Database](c)

	require.Len(t, events, 3, "prototype rebuilds, config stays cached")
	assert.NotEqual(t, events[1].trace, events[2].trace)
}

func TestWithCreateObserver_ReportsFailure(t *testing.T) {
	t.Parallel()

	var events []createEvent
	c := weft.New(weft.WithCreateObserver(func(trace uuid.UUID, component string, duration time.Duration, err error) {
		events = append(events, createEvent{trace: trace, component: component, err: err})
	}))

	weft.MustRegister[traceProbe](c, weft.WithConstructor(func() (*traceProbe, error) {
		return nil, errors.New("boom")
	}))

	_, err := weft.Lookup[*traceProbe](c)
	require.Error(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "traceProbe", events[0].component)
	assert.ErrorContains(t, events[0].err, "boom")
}

func TestWithLookupObserver(t *testing.T) {
	t.Parallel()

	type lookupEvent struct {
		label string
		err   error
	}

	var events []lookupEvent
	c := weft.New(weft.WithLookupObserver(func(label string, duration time.Duration, err error) {
		events = append(events, lookupEvent{label: label, err: err})
	}))

	weft.MustRegisterValue(c, &Config{Port: 8080})

	weft.MustLookup[*Config](c)
	_, _ = weft.Lookup[*Config](c, weft.Named("config"))
	_, missErr := weft.Lookup[*Database](c)
	_, _ = c.LookupName("config")

	require.Error(t, missErr)
	require.Len(t, events, 4)

	assert.True(t, strings.Contains(events[0].label, ".Config"))
	assert.NoError(t, events[0].err)

	assert.Contains(t, events[1].label, "(name=config)")

	assert.Contains(t, events[2].label, ".Database")
	assert.True(t, weft.IsNotFound(events[2].err), "misses reach the observer too")

	assert.Equal(t, "name=config", events[3].label)
}

func TestWithStartAndStopObservers(t *testing.T) {
	t.Parallel()

	var started, stopped []string
	c := weft.New(
		weft.WithStartObserver(func(component string, duration time.Duration, err error) {
			started = append(started, component)
			assert.NoError(t, err)
		}),
		weft.WithStopObserver(func(component string, duration time.Duration, err error) {
			stopped = append(stopped, component)
			assert.NoError(t, err)
		}),
	)

	weft.MustRegister[Config](c)
	weft.MustRegister[obsWorker](c)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Stop(ctx))

	assert.Equal(t, []string{"config", "obsWorker"}, started,
		"every eagerly built singleton reports, hooks or not")
	assert.Equal(t, []string{"obsWorker"}, stopped,
		"only components with a teardown hook report on stop")
}

func TestWithStartObserver_ReportsFailure(t *testing.T) {
	t.Parallel()

	var failures []string
	c := weft.New(weft.WithStartObserver(func(component string, duration time.Duration, err error) {
		if err != nil {
			failures = append(failures, component)
		}
	}))

	weft.MustRegister[obsFailing](c)

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"obsFailing"}, failures)
}
