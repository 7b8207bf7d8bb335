package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
)

// WriteSnapshot persists a snapshot and all of its class views in one
// transaction.
//
// Idempotent: a snapshot whose ID is already stored is left untouched and
// the call reports inserted=false. The snapshot ID must match the content
// hash of its classes.
func (s *Store) WriteSnapshot(ctx context.Context, snap ir.Snapshot) (inserted bool, err error) {
	want, err := ir.SnapshotID(snap.Classes)
	if err != nil {
		return false, fmt.Errorf("write snapshot: %w", err)
	}
	if snap.ID != want {
		return false, fmt.Errorf("write snapshot: id %q does not match content hash %q", snap.ID, want)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, engine_version, class_count, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots))
		ON CONFLICT(id) DO NOTHING
	`, snap.ID, snap.EngineVersion, len(snap.Classes))
	if err != nil {
		return false, fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	if n == 0 {
		return false, tx.Commit()
	}

	for _, c := range snap.Classes {
		if err = writeClass(ctx, tx, snap.ID, c); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit snapshot %s: %w", snap.ID, err)
	}
	return true, nil
}

func writeClass(ctx context.Context, tx *sql.Tx, snapshotID string, c ir.ClassView) error {
	ancestors, err := marshalIDs(c.Ancestors)
	if err != nil {
		return fmt.Errorf("class %s: %w", c.ID, err)
	}
	loc, err := marshalLocation(c.Location)
	if err != nil {
		return fmt.Errorf("class %s: %w", c.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO classes (
			snapshot_id, id, seq, name, simple_name, qualified_name,
			meta_id, shape_id, ancestors, location
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snapshotID, c.ID, c.Seq, c.Name, c.SimpleName, c.QualifiedName,
		c.MetaID, c.ShapeID, ancestors, loc)
	if err != nil {
		return fmt.Errorf("insert class %s: %w", c.ID, err)
	}

	for i, base := range c.Bases {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO class_bases (snapshot_id, class_id, position, base_id)
			VALUES (?, ?, ?, ?)
		`, snapshotID, c.ID, i, base)
		if err != nil {
			return fmt.Errorf("insert base %d of class %s: %w", i, c.ID, err)
		}
	}

	for i, a := range c.Attrs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO class_attrs (snapshot_id, class_id, position, name, kind, value)
			VALUES (?, ?, ?, ?, ?, ?)
		`, snapshotID, c.ID, i, a.Name, a.Kind, a.Value)
		if err != nil {
			return fmt.Errorf("insert attr %q of class %s: %w", a.Name, c.ID, err)
		}
	}
	return nil
}
