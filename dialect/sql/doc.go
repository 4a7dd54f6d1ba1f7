// Package sql runs generated scripts on a database to verify them.
//
// A Driver wraps a database/sql connection opened with the driver registered
// for a dialect (go-sql-driver/mysql, lib/pq or modernc.org/sqlite):
//
//	drv, err := sql.Open(ctx, "postgres", "postgres://localhost/scratch?sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(time.Second))
//	if err := sql.Verify(ctx, stats, create, drop); err != nil {
//	    return err // errors.Is(err, sql.ErrVerifyFailed)
//	}
//
// Verify creates every table and drops it again, so the target database
// should be a scratch database.
package sql
