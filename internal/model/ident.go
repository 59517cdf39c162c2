package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IdentCap is the storage size of a bounded identifier. The last byte is
// always zero so the stored form stays compatible with null-terminated
// record layouts.
const IdentCap = 32

// Ident is a fixed-capacity instrument or exchange identifier. The backing
// array is null-padded and can never overflow.
type Ident [IdentCap]byte

// NewIdent copies at most IdentCap-1 bytes of s and reports whether s was
// truncated to fit.
func NewIdent(s string) (Ident, bool) {
	var id Ident
	n := copy(id[:IdentCap-1], s)
	return id, n < len(s)
}

// MustIdent builds an Ident from a trusted literal, dropping any overflow.
func MustIdent(s string) Ident {
	id, _ := NewIdent(s)
	return id
}

func (id Ident) Slice() []byte {
	return id.AppendBytes(make([]byte, 0, id.Len()))
}

func (id Ident) String() string {
	return string(id.Slice())
}

// Len reports the number of bytes before the null padding.
func (id Ident) Len() int {
	if i := bytes.IndexByte(id[:], 0); i >= 0 {
		return i
	}
	return IdentCap
}

func (id Ident) AppendBytes(buf []byte) []byte {
	return append(buf, id[:id.Len()]...)
}

func (id Ident) IsZero() bool {
	return id[0] == 0
}

func (id Ident) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Ident) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, truncated := NewIdent(s)
	if truncated {
		return fmt.Errorf("identifier %q exceeds %d bytes", s, IdentCap-1)
	}
	*id = v
	return nil
}
