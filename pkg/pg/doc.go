// Package pg bootstraps the PostgreSQL layer for the notification stores:
// a pgx/v5 connection pool with startup retries, a health probe, goose
// schema migrations, and the error helpers the stores share.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
package pg
