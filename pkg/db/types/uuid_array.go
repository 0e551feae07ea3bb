package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UUIDArray maps a Postgres uuid[] column onto a slice of UUIDs.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src any) error {
	if src == nil {
		*a = UUIDArray{}
		return nil
	}

	var raw pq.StringArray
	if err := raw.Scan(src); err != nil {
		return fmt.Errorf("UUIDArray: %w", err)
	}

	out := make(UUIDArray, 0, len(raw))
	for _, entry := range raw {
		id, err := uuid.Parse(strings.TrimSpace(entry))
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", entry, err)
		}
		out = append(out, id)
	}
	*a = out
	return nil
}

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, id := range a {
		parts = append(parts, id.String())
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}
