// Package database opens the GORM connection used by the sync journal.
//
// # Connect
//
// Connect supports two drivers:
//   - sqlite (default): Name is a file path, usually inside the project's .agents
//     directory. Parent directories are created. ":memory:" is accepted for tests.
//   - mysql: a shared server, for teams that want one journal across machines.
//
// The connection is verified with a ping bounded by TimeoutSeconds. GORM's own
// logger is silenced.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns on either dialect (PRAGMA table_info on
// sqlite, SHOW COLUMNS on mysql). MissingColumns compares them with an expected
// set; the journal uses it after migrating to catch a table created by an older,
// incompatible version.
//
// # Usage
//
//	db, err := database.Connect(cfg.Journal.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "sync_journal", []string{"kind", "hash"})
package database
