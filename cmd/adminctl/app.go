package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	stub "github.com/spec-kit/workforce-console/internal/api/http"
	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/config"
	"github.com/spec-kit/workforce-console/internal/console"
	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/events"
	"github.com/spec-kit/workforce-console/internal/notify"
	"github.com/spec-kit/workforce-console/internal/observability"
	"github.com/spec-kit/workforce-console/internal/persistence"
	"github.com/spec-kit/workforce-console/internal/service"
	"github.com/spec-kit/workforce-console/internal/session"
	"github.com/spec-kit/workforce-console/internal/worker"
)

// errStopped ends a command whose request was stopped; the reason was already shown.
var errStopped = errors.New("stopped")

const embeddedBaseURL = "http://embedded.local"

// app is the process-wide context every command shares. It is built once, so an
// elevated session survives between commands of the same shell.
type app struct {
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	profile  string
	embedded bool

	ready    bool
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	store    *session.Store
	channel  *notify.Channel
	client   *apiclient.Client
	audit    *service.SessionAuditService
	renderer *console.TextRenderer
	closers  []func()
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (a *app) init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLoggerTo(cfg.Logger, "stderr")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg, a.logger = cfg, logger
	a.closers = append(a.closers, func() { _ = logger.Sync() })
	a.metrics = observability.NewMetrics()

	a.store = session.NewStore(a.persistentBackend(ctx), session.NewMemoryBackend(), logger)
	a.closers = append(a.closers, func() { _ = a.store.Close() })

	a.channel = notify.New(notify.WriterFactory(a.errOut),
		notify.WithDuration(cfg.Notification.DisplayDuration()),
		notify.WithLogger(logger))
	a.closers = append(a.closers, a.channel.Close)

	dispatcher := events.NewInMemoryDispatcher()
	a.audit = worker.StartSessionAudit(dispatcher, logger, 0)

	opts := apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		Root:    cfg.API.Root,
		LoginPaths: map[domain.Profile]string{
			domain.ProfileStandard: cfg.Login.StandardPath,
			domain.ProfileElevated: cfg.Login.ElevatedPath,
		},
		Timeout: cfg.API.Timeout(),
		Logger:  logger,
		Metrics: a.metrics,
		Events:  dispatcher,
	}
	pinned := a.profile
	if pinned == "" {
		pinned = cfg.API.Profile
	}
	if pinned != "" {
		p, err := domain.ParseProfile(pinned)
		if err != nil {
			return err
		}
		opts.Profile = p
	}
	if a.embedded {
		stubApp, err := stub.NewServer(ctx, stub.ServerDeps{Config: *cfg, Logger: logger, Metrics: a.metrics})
		if err != nil {
			return fmt.Errorf("start embedded backend: %w", err)
		}
		opts.BaseURL = embeddedBaseURL
		opts.HTTPClient = stub.NewTransport(stubApp)
	}

	a.client = apiclient.New(a.store, a.channel, apiclient.NavigatorFunc(a.navigate), opts)
	a.renderer = console.NewTextRenderer(a.out)
	a.ready = true
	return nil
}

func (a *app) persistentBackend(ctx context.Context) session.Backend {
	scfg := session.Config{
		Driver:      a.cfg.Session.Driver,
		StateFile:   a.cfg.Session.StateFile,
		SQLitePath:  a.cfg.Session.SQLitePath,
		RedisPrefix: a.cfg.Session.RedisPrefix,
	}
	deps := session.Dependencies{Logger: a.logger}
	if scfg.Driver == session.DriverRedis {
		r, err := persistence.NewRedis(ctx, a.cfg.Redis, a.logger)
		if err != nil {
			return a.volatileBackend(scfg.Driver, err)
		}
		a.closers = append(a.closers, r.Close)
		deps.Redis = r.Client
	}
	backend, err := session.NewBackend(scfg, deps)
	if err != nil {
		return a.volatileBackend(scfg.Driver, err)
	}
	return backend
}

// volatileBackend stands in when the configured session storage cannot be opened. The
// user is signed out and any new sign-in lasts for this process only.
func (a *app) volatileBackend(driver string, cause error) session.Backend {
	a.logger.Warn("session storage unavailable, keeping credentials in memory",
		zap.String("driver", driver), zap.Error(cause))
	return session.NewMemoryBackend()
}

// navigate is the terminal step of a teardown: the CLI cannot open a page, so it tells
// the user where to sign in.
func (a *app) navigate(_ context.Context, surface domain.LoginSurface) {
	target := a.cfg.API.BaseURL + surface.Path
	if a.embedded {
		target = surface.Path
	}
	fmt.Fprintf(a.errOut, "signed out; sign in at %s or run: adminctl login --as %s\n", target, surface.Profile)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
