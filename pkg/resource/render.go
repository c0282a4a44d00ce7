package resource

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/acadia-dev/acadia/pkg/api"
)

// renderedRecord marshals a record with a stable key order: id, userId,
// the kind's fields in schema order, then the embedded owner profile.
// Timestamps and the owner's password hash never appear.
type renderedRecord struct {
	kind *Kind
	rec  *api.Record
}

// Render wraps a record for JSON serialization under this kind's schema.
func (k *Kind) Render(rec *api.Record) json.Marshaler {
	return &renderedRecord{kind: k, rec: rec}
}

// RenderList wraps a record slice for JSON serialization. A nil or empty
// slice marshals as [] rather than null.
func (k *Kind) RenderList(recs []*api.Record) json.Marshaler {
	return &renderedList{kind: k, recs: recs}
}

func (r *renderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	fmt.Fprintf(&buf, `"id":%d,"userId":%d`, r.rec.ID, r.rec.OwnerID)

	for _, f := range r.kind.Fields {
		buf.WriteByte(',')
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if value, ok := r.rec.Fields[f.Name]; ok {
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		} else {
			buf.WriteString("null")
		}
	}

	if r.rec.Owner != nil {
		owner, err := json.Marshal(r.rec.Owner)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"user":`)
		buf.Write(owner)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type renderedList struct {
	kind *Kind
	recs []*api.Record
}

func (l *renderedList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range l.recs {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := (&renderedRecord{kind: l.kind, rec: rec}).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
