package store

import (
	"context"
	"fmt"

	"github.com/roach88/inspectq/internal/engine"
	"github.com/roach88/inspectq/internal/geom"
)

// ReadSnapshot materializes all points into an immutable engine snapshot.
//
// Points are read in ascending id order, the dataset's load order; that
// order is the final tiebreaker of the engine's canonical output ordering,
// so it must be stable across reads of the same database.
func (s *Store) ReadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, x, y, group_id, category FROM inspection_region ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	var points []geom.Point
	for rows.Next() {
		var p geom.Point
		if err := rows.Scan(&p.ID, &p.X, &p.Y, &p.GroupID, &p.Category); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	snap, err := engine.NewSnapshot(points)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}
