package shared

import (
	"bytes"
	"encoding/json"

	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

// NullKeys returns which of fields carry an explicit JSON null in the
// object data. Anything that is not an object yields nothing.
func NullKeys(data []byte, fields ...string) map[string]bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	var out map[string]bool
	for _, field := range fields {
		raw, ok := obj[field]
		if !ok || !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if out == nil {
			out = make(map[string]bool)
		}
		out[field] = true
	}
	return out
}

// RejectNull records MsgNull for each null field.
func RejectNull(fe httpx.FieldErrors, nulls map[string]bool) {
	for field := range nulls {
		fe.Add(field, MsgNull)
	}
}
