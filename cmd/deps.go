package cmd

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/config"
	"github.com/Nda25/anees/internal/llm"
	"github.com/Nda25/anees/internal/memo"
	"github.com/Nda25/anees/internal/normalize"
	"github.com/Nda25/anees/internal/store"
	"github.com/Nda25/anees/internal/tutor"
)

// deps are the long-lived components shared by serve and generate.
type deps struct {
	store  *store.Store
	router *llm.Router
	tutor  *tutor.Tutor
	redis  *goredis.Client
}

// buildDeps opens the store, the provider router and the memo backend and
// wires them into a Tutor. Close releases them.
func buildDeps(ctx context.Context, dbPath string, cfg *config.Config, log *zap.Logger) (*deps, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := &deps{store: st}

	d.router, err = llm.NewRouterFromConfig(ctx, llm.ConfigFromEnv(), st.EventRepo(), log)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	var m memo.Store
	switch cfg.Memo.Backend {
	case "redis":
		d.redis, err = memo.DialRedis(ctx, cfg.Memo.RedisAddr, cfg.Memo.RedisPassword, cfg.Memo.RedisDB)
		if err != nil {
			d.Close()
			return nil, err
		}
		m = memo.NewRedisStore(d.redis, cfg.Memo.Prefix, cfg.Memo.TTL)
	default:
		m = memo.NewMemoryStore(cfg.Memo.TTL)
	}

	d.tutor = tutor.New(d.router, cfg.Tutor,
		tutor.WithMemo(m),
		tutor.WithEvents(st.EventRepo()),
		tutor.WithLogger(log),
		tutor.WithNormalizer(normalize.New(normalize.WithGlossary(cfg.Glossary))),
	)

	log.Info("tutor ready",
		zap.String("provider", d.router.Name()),
		zap.String("memo", cfg.Memo.Backend),
		zap.Int("max_attempts", cfg.Tutor.MaxAttempts),
	)
	return d, nil
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}
