package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daap14/roleassign/internal/api/handler"
	"github.com/daap14/roleassign/internal/assignment"
	"github.com/daap14/roleassign/internal/auth"
	"github.com/daap14/roleassign/internal/config"
	"github.com/daap14/roleassign/internal/database"
	"github.com/daap14/roleassign/internal/event"
	"github.com/daap14/roleassign/internal/notify"
	"github.com/daap14/roleassign/internal/role"
	"github.com/daap14/roleassign/internal/user"
	"github.com/daap14/roleassign/internal/workflow"
)

// app holds the wired components shared by the serve and bootstrap commands.
type app struct {
	db       handler.DBPinger
	roles    role.Repository
	users    *user.Service
	auth     *auth.Service
	workflow *workflow.Service
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var (
		userRepo   user.Repository
		roleRepo   role.Repository
		ledgerRepo assignment.Repository
	)

	switch cfg.Store {
	case config.StorePostgres:
		if cfg.MigrateOnStart {
			if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}

		db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: cfg.DBConnTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.db = db

		userRepo = user.NewRepository(db.Pool())
		roleRepo = role.NewRepository(db.Pool())
		ledgerRepo = assignment.NewRepository(db.Pool())
		slog.Info("using postgres store")
	default:
		users := user.NewMemoryRepository()
		roles := role.NewMemoryRepository()
		userRepo = users
		roleRepo = roles
		ledgerRepo = assignment.NewMemoryRepository(roles, users)
		slog.Warn("using in-memory store; data is lost on restart")
	}

	if err := role.Seed(ctx, roleRepo, cfg.SeedRoles); err != nil {
		a.Close()
		return nil, fmt.Errorf("seeding roles: %w", err)
	}

	bus := event.NewBus()
	workflow.NewDefaultRoleTrigger(roleRepo, ledgerRepo, workflow.Policy{
		RoleName:     cfg.DefaultRole,
		ExemptEmails: cfg.ExemptEmails(),
	}).Register(bus)

	if cfg.RabbitMQ.URL != "" {
		fwd, err := event.NewAMQPForwarder(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := fwd.Close(); err != nil {
				slog.Warn("failed to close event forwarder", "error", err)
			}
		})
		bus.SubscribeAll(fwd.Handle)
		slog.Info("forwarding domain events", "queue", cfg.RabbitMQ.Queue)
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.roles = roleRepo
	a.users = user.NewService(userRepo, bus)
	a.auth = auth.NewService(a.users, cfg.BcryptCost)
	a.workflow = workflow.NewService(a.users, roleRepo, ledgerRepo, notifier, bus)
	return a, nil
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.SMTP.Host == "" {
		slog.Info("SMTP_HOST not set; notifications are logged instead of sent")
		return notify.NewLogNotifier(slog.Default()), nil
	}

	n, err := notify.NewEmailNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		TLS:      cfg.SMTP.TLS,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring email notifier: %w", err)
	}
	return n, nil
}
