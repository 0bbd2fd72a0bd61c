// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations shipped inside the binary.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, postgres.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// Healthcheck returns a probe suitable for the readiness endpoint.
package pg
