// Package journal keeps a history of every create, update, warn and delete the
// reconcile engine applies.
//
// A Journal is a reconcile.Observer: register it with reconcile.WithObserver and each
// Event becomes a Record row in the sync_journal table. Writes are best effort; a
// failing database is logged and the sync carries on.
//
// Storage defaults to a sqlite file under the project's .agents directory. A mysql
// database can be configured instead so several machines share one history.
//
// # Usage
//
//	j, err := journal.Open(cfg.Journal, root, logger)
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	engine := reconcile.NewEngine(store, gw, logger, cfg.Reconcile, reconcile.WithObserver(j))
//	records, _ := j.Recent(ctx, 20, "agent")
package journal
