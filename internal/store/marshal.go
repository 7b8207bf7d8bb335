package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/metaclass/internal/ir"
)

// marshalIDs converts a list of class IDs to canonical JSON TEXT.
func marshalIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := ir.MarshalCanonical(ids)
	if err != nil {
		return "", fmt.Errorf("marshal ids: %w", err)
	}
	return string(data), nil
}

// unmarshalIDs parses a JSON array of IDs. Never returns nil.
func unmarshalIDs(data string) ([]string, error) {
	ids := []string{}
	if data == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal ids: %w", err)
	}
	return ids, nil
}

// marshalLocation converts an optional location to canonical JSON TEXT or
// SQL NULL.
func marshalLocation(loc *ir.Location) (sql.NullString, error) {
	if loc == nil {
		return sql.NullString{}, nil
	}
	data, err := ir.MarshalCanonical(*loc)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal location: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalLocation parses a stored location; NULL yields nil.
func unmarshalLocation(data sql.NullString) (*ir.Location, error) {
	if !data.Valid {
		return nil, nil
	}
	var loc ir.Location
	if err := json.Unmarshal([]byte(data.String), &loc); err != nil {
		return nil, fmt.Errorf("unmarshal location: %w", err)
	}
	return &loc, nil
}
