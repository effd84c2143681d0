// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// result catalog.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool. Callers [Pool.Take]
// a connection, perform work, and [Pool.Put] it back, or use [Pool.Do]
// and [Pool.Transaction] which do both. Connections are not safe for
// concurrent use; batch workers each hold their own connection for the
// duration of one catalog write.
//
// # Pragmas
//
// Every connection is initialized with:
//
//   - journal_mode=WAL: the viewer can read the catalog while a batch
//     run writes to it.
//   - synchronous=NORMAL: transactions survive process crashes.
//   - busy_timeout=5000: wait up to 5 seconds for the write lock.
//   - foreign_keys=ON: file rows reference their run.
//   - cache_size=-8192: 8 MB page cache per connection.
//   - temp_store=MEMORY
//
// # Schema
//
// [Config.Schema] is applied to every connection and must be
// idempotent. [Config.SchemaVersion] is stamped into PRAGMA
// user_version of a new database; opening a database stamped with a
// different version fails with [ErrSchemaMismatch] rather than writing
// rows the reader cannot interpret.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:          "/var/lib/uidecode/catalog.sqlite",
//	    Logger:        logger,
//	    Schema:        schema,
//	    SchemaVersion: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.Transaction(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "INSERT ...", &sqlitex.ExecOptions{...})
//	})
package sqlitepool
