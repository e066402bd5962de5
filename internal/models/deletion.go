package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Deletion is the soft-delete state of a record: the zero value is Active,
// Deleted(at, by) is the only way to build the other variant. It is stored
// in a single nullable jsonb column so at/by can never disagree.
type Deletion struct {
	at time.Time
	by uuid.UUID
}

type deletionJSON struct {
	At time.Time `json:"at"`
	By uuid.UUID `json:"by"`
}

func Deleted(at time.Time, by uuid.UUID) Deletion {
	return Deletion{at: at.UTC(), by: by}
}

func (d Deletion) IsDeleted() bool {
	return !d.at.IsZero()
}

// Info returns when and by whom the record was removed. ok is false for
// active records.
func (d Deletion) Info() (at time.Time, by uuid.UUID, ok bool) {
	return d.at, d.by, d.IsDeleted()
}

func (d Deletion) Value() (driver.Value, error) {
	if !d.IsDeleted() {
		return nil, nil
	}
	b, err := json.Marshal(deletionJSON{At: d.at, By: d.by})
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Deletion) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Deletion{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("deletion: unsupported scan type %T", src)
	}

	var dj deletionJSON
	if err := json.Unmarshal(raw, &dj); err != nil {
		return err
	}
	if dj.At.IsZero() {
		return errors.New("deletion: missing timestamp")
	}
	*d = Deletion{at: dj.At, by: dj.By}
	return nil
}

func (d Deletion) MarshalJSON() ([]byte, error) {
	if !d.IsDeleted() {
		return []byte("null"), nil
	}
	return json.Marshal(deletionJSON{At: d.at, By: d.by})
}

func (d *Deletion) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Deletion{}
		return nil
	}
	return d.Scan(b)
}

// GormDataType keeps AutoMigrate from guessing the column type.
func (Deletion) GormDataType() string {
	return "jsonb"
}
