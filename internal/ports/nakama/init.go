package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"fortyone/internal/bot"
	"fortyone/internal/config"
	"fortyone/internal/identity"
	"fortyone/internal/ports"
	pgstore "fortyone/internal/ports/postgres"
	redisstore "fortyone/internal/ports/redis"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameConfigPath = "data/game_config.json"

// dependencies are the collaborators shared by every match of the module.
type dependencies struct {
	config     config.GameConfig
	identities ports.IdentityPort
	tickets    *identity.TicketIssuer
	history    ports.HistoryPort
	profiles   ports.ProfilePort
}

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	deps, err := loadDependencies(ctx, logger, nk)
	if err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer, deps); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameFortyOne, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(deps), nil
	}); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.WithField("history", deps.config.HistoryBackend).Info("FortyOne Go module loaded.")
	return nil
}

func loadDependencies(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (*dependencies, error) {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.GetGameConfig().WithEnv(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	}
	bot.ProvisionBots(ctx, nk, logger)

	deps := &dependencies{
		config:   cfg,
		profiles: NewNakamaProfileAdapter(nk),
	}

	if cfg.RedisAddr != "" {
		store, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.SessionTTL())
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		deps.identities = store
	} else {
		deps.identities = identity.NewMemoryStore()
	}

	if cfg.TicketSecret != "" {
		tickets, err := identity.NewTicketIssuer(cfg.TicketSecret, cfg.TicketTTL())
		if err != nil {
			return nil, fmt.Errorf("rejoin tickets: %w", err)
		}
		deps.tickets = tickets
	}

	switch cfg.HistoryBackend {
	case config.HistoryStorage:
		deps.history = NewStorageHistory(nk)
	case config.HistoryPostgres:
		store, err := pgstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("round archive: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("round archive: %w", err)
		}
		deps.history = store
	}
	return deps, nil
}
