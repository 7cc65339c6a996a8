// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon owns the lifecycle of a running brewlog server: the HTTP
// listener, config hot reload and ordered shutdown of backing resources.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/brewlog/internal/config"
)

const defaultShutdownTimeout = 15 * time.Second

// ShutdownHook releases one resource during shutdown.
type ShutdownHook func(ctx context.Context) error

type namedHook struct {
	name string
	hook ShutdownHook
}

// App runs the HTTP server and the reload wiring until its context ends.
type App struct {
	logger   zerolog.Logger
	server   *http.Server
	holder   *config.Holder
	onReload func(config.AppConfig)

	// ShutdownTimeout bounds server drain plus hooks.
	ShutdownTimeout time.Duration
	reloadSignal    os.Signal

	mu      sync.Mutex
	running bool
	hooks   []namedHook
	addr    chan net.Addr
}

// NewApp returns an App serving srv. holder may be nil, in which case no
// watcher or SIGHUP reload is wired.
func NewApp(logger zerolog.Logger, srv *http.Server, holder *config.Holder) *App {
	return &App{
		logger:          logger,
		server:          srv,
		holder:          holder,
		ShutdownTimeout: defaultShutdownTimeout,
		reloadSignal:    syscall.SIGHUP,
		addr:            make(chan net.Addr, 1),
	}
}

// OnReload registers fn to run with every config the holder swaps in.
func (a *App) OnReload(fn func(config.AppConfig)) {
	a.onReload = fn
}

// RegisterShutdownHook adds a hook. Hooks run in reverse registration order
// after the server has drained.
func (a *App) RegisterShutdownHook(name string, hook ShutdownHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, hook: hook})
}

// Addr blocks until the listener is bound and returns its address.
func (a *App) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case addr := <-a.addr:
		a.addr <- addr
		return addr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return ErrMissingServer
	}
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.server.Addr, err)
	}
	a.addr <- ln.Addr()

	g, gctx := errgroup.WithContext(ctx)

	if a.holder != nil {
		if err := a.holder.StartWatcher(gctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
		a.wireReload(g, gctx)
	}

	g.Go(func() error {
		a.logger.Info().
			Str("event", "server.listening").
			Str("addr", ln.Addr().String()).
			Msg("serving brew notes")
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Str("event", "server.stopping").Msg("shutdown signal received")
		return a.shutdown(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

func (a *App) wireReload(g *errgroup.Group, ctx context.Context) {
	applyCh := make(chan config.AppConfig, 1)
	a.holder.RegisterListener(applyCh)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case cfg := <-applyCh:
				if a.onReload != nil {
					a.onReload(cfg)
				}
			}
		}
	})

	if a.reloadSignal == nil {
		return
	}
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, a.reloadSignal)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				a.logger.Info().
					Str("event", "config.reload_signal").
					Str("signal", a.reloadSignal.String()).
					Msg("received reload signal, reloading config")
				if err := a.holder.Reload(ctx); err != nil {
					a.logger.Warn().Err(err).Str("event", "config.reload_failed").Msg("config reload failed")
				}
			}
		}
	})
}

func (a *App) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if a.holder != nil {
		a.holder.Stop()
	}

	a.mu.Lock()
	hooks := append([]namedHook(nil), a.hooks...)
	a.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		start := time.Now()
		if err := h.hook(ctx); err != nil {
			a.logger.Error().Err(err).Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook failed")
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
			continue
		}
		a.logger.Debug().Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook completed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	a.logger.Info().Str("event", "server.stopped").Msg("stopped cleanly")
	return nil
}
