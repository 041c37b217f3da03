package weft_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlib/weft"
)

type heavy struct {
	n int
}

type lazyUser struct {
	Heavy weft.Provider[*heavy] `weft:""`
}

type pickyLazyUser struct {
	Heavy weft.Provider[*heavy] `weft:"special"`
}

type missingLazyUser struct {
	Gone weft.Provider[*Config] `weft:""`
}

type cycX struct {
	Y *cycY `weft:""`
}

type cycY struct {
	X weft.Provider[*cycX] `weft:""`
}

func TestProvider_DefersConstruction(t *testing.T) {
	t.Parallel()

	var built atomic.Int32

	c := weft.New()
	weft.MustRegister[heavy](c, weft.WithConstructor(func() *heavy {
		built.Add(1)
		return &heavy{n: 7}
	}))
	weft.MustRegister[lazyUser](c)

	u, err := weft.Lookup[*lazyUser](c)
	require.NoError(t, err)
	require.NotNil(t, u.Heavy)
	assert.Equal(t, int32(0), built.Load(), "nothing is built until the provider is called")

	h, err := u.Heavy()
	require.NoError(t, err)
	assert.Equal(t, 7, h.n)
	assert.Equal(t, int32(1), built.Load())

	again, err := u.Heavy()
	require.NoError(t, err)
	assert.Same(t, h, again, "singletons stay cached across provider calls")
	assert.Equal(t, int32(1), built.Load())
}

func TestProvider_CarriesCriteria(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &heavy{n: 1}, weft.WithName("ordinary"))
	weft.MustRegisterValue(c, &heavy{n: 2}, weft.WithName("special"))
	weft.MustRegister[pickyLazyUser](c)

	u := weft.MustLookup[*pickyLazyUser](c)
	h, err := u.Heavy()
	require.NoError(t, err)
	assert.Equal(t, 2, h.n)
}

func TestProvider_MissReportsOnCall(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[missingLazyUser](c)

	u, err := weft.Lookup[*missingLazyUser](c)
	require.NoError(t, err, "an unfillable provider slot is not a resolution error")
	require.NotNil(t, u.Gone)

	cfg, err := u.Gone()
	assert.True(t, weft.IsNotFound(err))
	assert.Nil(t, cfg)
}

func TestProvider_RegisteredValueWins(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, weft.Provider[*heavy](func() (*heavy, error) {
		return &heavy{n: 42}, nil
	}), weft.WithName("heavyProvider"))
	weft.MustRegister[lazyUser](c)

	u := weft.MustLookup[*lazyUser](c)
	h, err := u.Heavy()
	require.NoError(t, err)
	assert.Equal(t, 42, h.n, "a registered provider beats the synthesized one")
}

func TestProvider_BreaksCycle(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegister[cycX](c)
	weft.MustRegister[cycY](c)

	require.NoError(t, c.Validate(), "deferred slots contribute no graph edges")

	x, err := weft.Lookup[*cycX](c)
	require.NoError(t, err)
	require.NotNil(t, x.Y)

	back, err := x.Y.X()
	require.NoError(t, err)
	assert.Same(t, x, back, "the provider hands back the cached singleton")
}

func TestProviderOf(t *testing.T) {
	t.Parallel()

	c := weft.New()
	weft.MustRegisterValue(c, &heavy{n: 5}, weft.WithName("special"))

	p := weft.ProviderOf[*heavy](c, weft.Named("special"))
	h, err := p()
	require.NoError(t, err)
	assert.Equal(t, 5, h.n)

	missing := weft.ProviderOf[*Config](c)
	_, err = missing()
	assert.True(t, weft.IsNotFound(err))
}
