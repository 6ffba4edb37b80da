package store

import (
	"context"
	"fmt"

	"github.com/roach88/inspectq/internal/geom"
)

// InsertGroups inserts group ids in one transaction. Groups must be
// inserted before their points because of the foreign key constraint.
func (s *Store) InsertGroups(ctx context.Context, groupIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO inspection_group (group_id) VALUES (?)")
	if err != nil {
		return fmt.Errorf("prepare insert group: %w", err)
	}
	defer stmt.Close()

	for _, id := range groupIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("insert group %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit groups: %w", err)
	}
	return nil
}

// InsertPoints inserts points in one transaction with a prepared
// statement. Every point's group must already exist.
func (s *Store) InsertPoints(ctx context.Context, points []geom.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO inspection_region (id, x, y, group_id, category) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert point: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.ID, p.X, p.Y, p.GroupID, p.Category); err != nil {
			return fmt.Errorf("insert point %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit points: %w", err)
	}
	return nil
}

// Clear removes all points and groups, for reloading a dataset.
// Points are deleted first to honor the foreign key constraint.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM inspection_region"); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM inspection_group"); err != nil {
		return fmt.Errorf("clear groups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}
