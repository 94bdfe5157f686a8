package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/fetcher"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/resolve"
	"github.com/sells-group/jobscout-cli/internal/scrape"
	"github.com/sells-group/jobscout-cli/internal/store"
)

// defaultSQLitePath is used when the sqlite driver has no database_url.
const defaultSQLitePath = "jobscout.db"

// appEnv holds the store and blacklists shared by the commands.
type appEnv struct {
	Store            store.Store
	CompanyBlacklist blacklist.Store
	JobBlacklist     blacklist.Store
}

// blacklistBackend is implemented by stores that keep blacklists in their
// own tables.
type blacklistBackend interface {
	BlacklistStore(kind blacklist.Kind) blacklist.Store
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// Blacklist returns the store for kind.
func (e *appEnv) Blacklist(kind blacklist.Kind) blacklist.Store {
	if kind == blacklist.KindJob {
		return e.JobBlacklist
	}
	return e.CompanyBlacklist
}

// Sources returns the pipeline sources backed by the environment.
func (e *appEnv) Sources() pipeline.Sources {
	return pipeline.Sources{
		Jobs:             e.Store,
		Companies:        e.Store,
		CompanyBlacklist: e.CompanyBlacklist,
		JobBlacklist:     e.JobBlacklist,
	}
}

// initEnv validates the config for mode, opens the configured store and
// runs its migrations. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if m, ok := st.(migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	env := &appEnv{Store: st}
	if b, ok := st.(blacklistBackend); ok {
		env.CompanyBlacklist = b.BlacklistStore(blacklist.KindCompany)
		env.JobBlacklist = b.BlacklistStore(blacklist.KindJob)
	} else {
		env.CompanyBlacklist = blacklist.NewFileStore(cfg.Data.Path(cfg.Data.CompanyBlacklistFile))
		env.JobBlacklist = blacklist.NewFileStore(cfg.Data.Path(cfg.Data.JobBlacklistFile))
	}

	zap.L().Debug("environment ready", zap.String("driver", cfg.Store.Driver), zap.String("mode", mode))
	return env, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "jsonl":
		if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "create data dir")
		}
		return store.NewJSONL(cfg.Data.Path(cfg.Data.CompaniesFile), cfg.Data.Path(cfg.Data.JobsFile)), nil
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = cfg.Data.Path(defaultSQLitePath)
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// matcher builds the configured company matcher.
func matcher() resolve.Matcher {
	return resolve.Matcher{
		TopN:                cfg.Match.TopN,
		Threshold:           cfg.Match.Threshold,
		UseAlternativeNames: cfg.Match.UseAlternativeNames,
	}
}

// ratingClient builds the rating site client over a rate-limited fetcher.
func ratingClient() *scrape.Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:         cfg.Scrape.UserAgent,
		Timeout:           secs(cfg.Scrape.TimeoutSecs),
		MaxRetries:        cfg.Scrape.MaxRetries,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
	})
	return scrape.NewClient(f, cfg.Scrape.BaseURL, cfg.Scrape.Country)
}
