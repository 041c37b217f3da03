package weft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

type steadyService struct{}

func (s *steadyService) HealthCheck(ctx context.Context) error { return nil }

func (s *steadyService) ReadinessCheck(ctx context.Context) error { return nil }

type sickService struct{}

func (s *sickService) HealthCheck(ctx context.Context) error {
	return errors.New("connection pool exhausted")
}

type warmingService struct {
	ready bool
}

func (s *warmingService) ReadinessCheck(ctx context.Context) error {
	if !s.ready {
		return errors.New("cache still warming")
	}
	return nil
}

func TestLive_AllUp(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[steadyService](c)
	weft.MustLookup[*steadyService](c)

	assert.NoError(t, c.Live(context.Background()))
}

func TestLive_ReportsFailure(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[steadyService](c)
	weft.MustRegister[sickService](c)
	weft.MustLookup[*steadyService](c)
	weft.MustLookup[*sickService](c)

	err := c.Live(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection pool exhausted")
	assert.ErrorContains(t, err, "sickService")
}

func TestLive_SkipsUninstantiated(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[sickService](c)

	assert.NoError(t, c.Live(context.Background()),
		"probing must not construct components")
}

func TestReady(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[warmingService](c)
	svc := weft.MustLookup[*warmingService](c)

	err := c.Ready(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "cache still warming")

	svc.ready = true
	assert.NoError(t, c.Ready(context.Background()))
}

func TestReady_IgnoresHealthOnlyComponents(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[sickService](c)
	weft.MustLookup[*sickService](c)

	assert.NoError(t, c.Ready(context.Background()),
		"health checkers without a readiness check do not gate readiness")
}

func TestHealth_Reports(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[steadyService](c)
	weft.MustRegister[sickService](c)
	weft.MustLookup[*steadyService](c)
	weft.MustLookup[*sickService](c)

	reports := c.Health(context.Background())
	require.Len(t, reports, 2)

	byName := make(map[string]weft.HealthReport, len(reports))
	for _, r := range reports {
		byName[r.Name] = r
	}

	steady := byName["steadyService"]
	assert.Equal(t, weft.HealthStatusUp, steady.Status)
	assert.NoError(t, steady.Error)

	sick := byName["sickService"]
	assert.Equal(t, weft.HealthStatusDown, sick.Status)
	assert.ErrorContains(t, sick.Error, "connection pool exhausted")
}

func TestHealth_EmptyWithoutCheckers(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[Config](c)
	weft.MustLookup[*Config](c)

	assert.Empty(t, c.Health(context.Background()))
}
