// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// VersionRow tallies one full version within a run.
type VersionRow struct {
	FullVersion string
	Kind        string
	Version     int
	Counts      map[Status]int
	Games       []string
}

// Total returns the number of files with this version.
func (r VersionRow) Total() int {
	total := 0
	for _, count := range r.Counts {
		total += count
	}
	return total
}

// Decoded returns the number of files the decoder finished.
func (r VersionRow) Decoded() int { return r.Counts[StatusOK] }

// Versions returns the per-version outcome matrix for a run, ordered
// by kind and then version. This is the report that answers which
// versions still lack a grammar.
func (c *Catalog) Versions(ctx context.Context, runID int64) ([]VersionRow, error) {
	rows := make(map[string]*VersionRow)
	games := make(map[string]map[string]bool)

	err := c.pool.Do(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			SELECT full_version, kind, version, status, game, count(*)
			FROM files WHERE run_id = ?
			GROUP BY full_version, kind, version, status, game`,
			&sqlitex.ExecOptions{
				Args: []any{runID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					fullVersion := stmt.ColumnText(0)
					row, ok := rows[fullVersion]
					if !ok {
						row = &VersionRow{
							FullVersion: fullVersion,
							Kind:        stmt.ColumnText(1),
							Version:     stmt.ColumnInt(2),
							Counts:      make(map[Status]int),
						}
						rows[fullVersion] = row
						games[fullVersion] = make(map[string]bool)
					}
					row.Counts[Status(stmt.ColumnText(3))] += stmt.ColumnInt(5)
					games[fullVersion][stmt.ColumnText(4)] = true
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: versions for run %d: %w", runID, err)
	}

	result := make([]VersionRow, 0, len(rows))
	for fullVersion, row := range rows {
		for game := range games[fullVersion] {
			row.Games = append(row.Games, game)
		}
		slices.Sort(row.Games)
		result = append(result, *row)
	}
	slices.SortFunc(result, func(a, b VersionRow) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Version, b.Version))
	})
	return result, nil
}
