package flatindex

import (
	"encoding/json"
	"fmt"
)

// indexFile is the on-disk shape of an index. Entry order is preserved so a
// loaded index searches identically to the one that was saved; Go's float32
// JSON encoding round-trips bit-exactly.
type indexFile struct {
	Dim     int     `json:"dim"`
	Entries []Entry `json:"entries"`
}

// MarshalJSON implements json.Marshaler.
func (ix *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(indexFile{
		Dim:     ix.dim,
		Entries: ix.entries,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded entries are
// validated the same way Build validates fresh ones.
func (ix *Index) UnmarshalJSON(data []byte) error {
	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("flatindex: decode: %w", err)
	}

	rebuilt, err := Build(file.Entries)
	if err != nil {
		return err
	}
	if rebuilt.dim != file.Dim {
		return fmt.Errorf("%w: file declares dimension %d, entries have %d",
			ErrDimensionMismatch, file.Dim, rebuilt.dim)
	}

	*ix = *rebuilt
	return nil
}
