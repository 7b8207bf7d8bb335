package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
	"github.com/roach88/metaclass/internal/queryir"
	"github.com/roach88/metaclass/internal/querysql"
)

var classFields = []string{
	"id", "seq", "name", "simple_name", "qualified_name",
	"meta_id", "shape_id", "ancestors", "location",
}

// SnapshotInfo summarizes a stored snapshot without its classes.
type SnapshotInfo struct {
	ID            string `json:"id"`
	EngineVersion string `json:"engine_version"`
	ClassCount    int    `json:"class_count"`
	Seq           int64  `json:"seq"` // write order
}

// AttrMatch is one class attribute found by name.
type AttrMatch struct {
	ClassID       string `json:"class_id"`
	QualifiedName string `json:"qualified_name"`
	Kind          string `json:"kind"`
	Value         string `json:"value"`
}

// ListSnapshots returns every stored snapshot in write order.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, engine_version, class_count, seq
		FROM snapshots
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.EngineVersion, &info.ClassCount, &info.Seq); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// ReadSnapshot loads a full snapshot. Returns ErrNotFound if the ID is
// unknown.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (ir.Snapshot, error) {
	snap := ir.Snapshot{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT engine_version FROM snapshots WHERE id = ?
	`, id).Scan(&snap.EngineVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Snapshot{}, fmt.Errorf("query snapshot %s: %w", id, err)
	}

	classes, err := s.readClasses(ctx, id, nil)
	if err != nil {
		return ir.Snapshot{}, err
	}
	snap.Classes = classes
	return snap, nil
}

// FindClass returns the class with the given qualified name in a snapshot.
// When several classes share the name, the earliest defined wins.
func (s *Store) FindClass(ctx context.Context, snapshotID, qualifiedName string) (ir.ClassView, error) {
	classes, err := s.readClasses(ctx, snapshotID,
		&queryir.Equals{Field: "qualified_name", Value: ir.Str(qualifiedName)})
	if err != nil {
		return ir.ClassView{}, err
	}
	if len(classes) == 0 {
		return ir.ClassView{}, fmt.Errorf("class %q in snapshot %s: %w", qualifiedName, snapshotID, ErrNotFound)
	}
	return classes[0], nil
}

// FindAttr lists every class in a snapshot that stores an attribute with
// the given name, in class definition order.
func (s *Store) FindAttr(ctx context.Context, snapshotID, name string) ([]AttrMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.class_id, c.qualified_name, a.kind, a.value
		FROM class_attrs a
		JOIN classes c ON c.snapshot_id = a.snapshot_id AND c.id = a.class_id
		WHERE a.snapshot_id = ? AND a.name = ?
		ORDER BY c.seq ASC, c.id COLLATE BINARY ASC
	`, snapshotID, name)
	if err != nil {
		return nil, fmt.Errorf("query attr %q: %w", name, err)
	}
	defer rows.Close()

	var out []AttrMatch
	for rows.Next() {
		var m AttrMatch
		if err := rows.Scan(&m.ClassID, &m.QualifiedName, &m.Kind, &m.Value); err != nil {
			return nil, fmt.Errorf("scan attr: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SelectClasses returns the classes of a snapshot that match filter, in
// definition order. A nil filter selects every class.
func (s *Store) SelectClasses(ctx context.Context, snapshotID string, filter queryir.Predicate) ([]ir.ClassView, error) {
	return s.readClasses(ctx, snapshotID, filter)
}

// readClasses loads class rows and then their bases and attributes.
// The rows cursor is closed before the child queries run because the pool
// holds a single connection.
func (s *Store) readClasses(ctx context.Context, snapshotID string, filter queryir.Predicate) ([]ir.ClassView, error) {
	query, args, err := querysql.NewSQLCompiler().Bind("snapshot", snapshotID).Compile(queryir.Select{
		From:   queryir.SourceClasses,
		Fields: classFields,
		Filter: queryir.Where(&queryir.Param{Field: "snapshot_id", Name: "snapshot"}, filter),
	})
	if err != nil {
		return nil, fmt.Errorf("class query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}

	classes := []ir.ClassView{}
	for rows.Next() {
		var (
			c         ir.ClassView
			ancestors string
			loc       sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Seq, &c.Name, &c.SimpleName, &c.QualifiedName,
			&c.MetaID, &c.ShapeID, &ancestors, &loc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan class: %w", err)
		}
		if c.Ancestors, err = unmarshalIDs(ancestors); err != nil {
			rows.Close()
			return nil, fmt.Errorf("class %s: %w", c.ID, err)
		}
		if c.Location, err = unmarshalLocation(loc); err != nil {
			rows.Close()
			return nil, fmt.Errorf("class %s: %w", c.ID, err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate classes: %w", err)
	}
	rows.Close()

	for i := range classes {
		if classes[i].Bases, err = s.readBases(ctx, snapshotID, classes[i].ID); err != nil {
			return nil, err
		}
		if classes[i].Attrs, err = s.readAttrs(ctx, snapshotID, classes[i].ID); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (s *Store) readBases(ctx context.Context, snapshotID, classID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT base_id FROM class_bases
		WHERE snapshot_id = ? AND class_id = ?
		ORDER BY position ASC
	`, snapshotID, classID)
	if err != nil {
		return nil, fmt.Errorf("query bases of %s: %w", classID, err)
	}
	defer rows.Close()

	bases := []string{}
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan base: %w", err)
		}
		bases = append(bases, b)
	}
	return bases, rows.Err()
}

func (s *Store) readAttrs(ctx context.Context, snapshotID, classID string) ([]ir.AttrView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, value FROM class_attrs
		WHERE snapshot_id = ? AND class_id = ?
		ORDER BY position ASC
	`, snapshotID, classID)
	if err != nil {
		return nil, fmt.Errorf("query attrs of %s: %w", classID, err)
	}
	defer rows.Close()

	attrs := []ir.AttrView{}
	for rows.Next() {
		var a ir.AttrView
		if err := rows.Scan(&a.Name, &a.Kind, &a.Value); err != nil {
			return nil, fmt.Errorf("scan attr: %w", err)
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}
