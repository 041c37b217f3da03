package weft

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Starter components run startup work when the container starts, after
// every singleton is constructed. Start order follows the dependency
// graph: dependencies start before their dependents.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper components run teardown when the container stops, in reverse
// start order. Components without shutdown arguments may implement
// io.Closer instead; Stop is preferred when both are present.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Start validates the registrations, constructs every singleton in
// dependency order and runs the Starter hooks. A failed start stops
// the components already started, in reverse, and leaves the container
// back in its bootstrap phase.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != stateNew {
		c.mu.Unlock()
		return errContainerStarted("start")
	}
	c.state = stateStarting
	c.mu.Unlock()

	if err := c.Validate(); err != nil {
		c.setState(stateNew)
		return err
	}

	order, err := c.startupOrder()
	if err != nil {
		c.setState(stateNew)
		return errStartupFailed("container", err)
	}

	var started []*Descriptor
	for _, d := range order {
		if err := c.startComponent(ctx, d); err != nil {
			c.rollback(ctx, started)
			c.setState(stateNew)
			return err
		}
		started = append(started, d)
	}

	c.setState(stateRunning)
	c.logger.Info().Int("components", len(order)).Msg("container started")
	return nil
}

// Stop tears down the started container: Stopper and io.Closer
// components run in reverse dependency order. Stopping continues past
// individual failures and reports them joined; stopping a container
// that is not running is a no-op.
func (c *Container) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state != stateRunning {
		c.mu.Unlock()
		return nil
	}
	c.state = stateStopping
	c.mu.Unlock()

	var errs []error
	for _, d := range c.shutdownOrder() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.stopComponent(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}

	c.setState(stateStopped)
	c.logger.Info().Msg("container stopped")

	if len(errs) > 0 {
		return errShutdownFailed("container", errors.Join(errs...))
	}
	return nil
}

// Run starts the container and blocks until the context is canceled or
// the process receives SIGINT or SIGTERM, then stops it.
func (c *Container) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return c.Stop(context.Background())
}

func (c *Container) setState(s containerState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Container) startupOrder() ([]*Descriptor, error) {
	keys, err := c.buildGraph().StartupOrder()
	if err != nil {
		return nil, err
	}
	return c.descriptorsByKeys(keys), nil
}

// shutdownOrder is the reverse dependency order. The graph cannot have
// grown a cycle after a successful start, but reverse registration
// order serves as the fallback if ordering fails.
func (c *Container) shutdownOrder() []*Descriptor {
	keys, err := c.buildGraph().ShutdownOrder()
	if err != nil {
		all := c.descriptors()
		out := make([]*Descriptor, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			out = append(out, all[i])
		}
		return out
	}
	return c.descriptorsByKeys(keys)
}

func (c *Container) descriptorsByKeys(keys []string) []*Descriptor {
	out := make([]*Descriptor, 0, len(keys))
	for _, key := range keys {
		if d, ok := c.descriptorByKey(key); ok {
			out = append(out, d)
		}
	}
	return out
}

// startComponent eagerly constructs a singleton and runs its Starter
// hook. Values arrive pre-built and prototypes have nothing to build
// eagerly, so both are skipped.
func (c *Container) startComponent(ctx context.Context, d *Descriptor) error {
	if d.isValue || d.scope != Singleton {
		return nil
	}

	start := time.Now()
	instance, err := c.instanceFor(d, newCreation())
	if err == nil {
		if starter, ok := instance.(Starter); ok {
			c.logger.Debug().Str("component", d.name).Msg("starting component")
			err = starter.Start(ctx)
		}
	}

	c.notifyStart(d.name, time.Since(start), err)
	if err != nil {
		return errStartupFailed(d.name, err)
	}
	return nil
}

// stopComponent runs the teardown hook of one instantiated component.
// Components the container never built, and values it does not own,
// are left alone.
func (c *Container) stopComponent(ctx context.Context, d *Descriptor) error {
	if d.isValue {
		return nil
	}
	instance, ok := c.cachedInstance(d)
	if !ok {
		return nil
	}

	start := time.Now()
	var err error
	switch v := instance.(type) {
	case Stopper:
		c.logger.Debug().Str("component", d.name).Msg("stopping component")
		err = v.Stop(ctx)
	case io.Closer:
		c.logger.Debug().Str("component", d.name).Msg("closing component")
		err = v.Close()
	default:
		return nil
	}

	c.notifyStop(d.name, time.Since(start), err)
	if err != nil {
		return errShutdownFailed(d.name, err)
	}
	return nil
}

// rollback stops the components already started when a later one fails
// to start. Rollback errors are logged and swallowed; the startup
// error is the one the caller needs.
func (c *Container) rollback(ctx context.Context, started []*Descriptor) {
	for i := len(started) - 1; i >= 0; i-- {
		d := started[i]
		if err := c.stopComponent(ctx, d); err != nil {
			c.logger.Warn().Err(err).Str("component", d.name).Msg("rollback stop failed")
		}
	}
}

func (c *Container) notifyStart(component string, duration time.Duration, err error) {
	for _, hook := range c.onStart {
		hook(component, duration, err)
	}
}

func (c *Container) notifyStop(component string, duration time.Duration, err error) {
	for _, hook := range c.onStop {
		hook(component, duration, err)
	}
}
