package resource

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/acadia-dev/acadia/pkg/storage"
)

// Check is a format constraint applied to a field value. Checks run only
// when the value is present and non-empty; required/empty handling is
// driven by the field's Required flag and messages.
type Check struct {
	Valid   func(value string) bool
	Message string
}

// Field is one entry in a kind's ordered schema.
type Field struct {
	// Name is the field name on the wire and the column name in the store.
	Name string

	// Required marks the field as mandatory on create and on the merged
	// record during update.
	Required bool

	// RequiredMessage is reported when a required field is absent.
	RequiredMessage string

	// EmptyMessage is reported when the field is present but empty.
	// It applies to optional fields too: an optional field may be
	// omitted, but not supplied blank when the message is set.
	EmptyMessage string

	// Checks are format constraints evaluated in order. Every failing
	// check contributes its message to the violation list.
	Checks []Check

	// Unique marks the field as unique within the kind. UniqueMessage is
	// reported when a create or update collides with an existing value.
	Unique        bool
	UniqueMessage string
}

// Kind describes one resource kind. Descriptors are built once at
// startup by Kinds() and treated as immutable afterwards.
type Kind struct {
	// Name is the singular kind name, e.g. "patent".
	Name string

	// Plural is the route and table name, e.g. "patents".
	Plural string

	// Fields is the ordered field schema.
	Fields []Field

	// Authorised selects the British spelling in the ownership guard
	// messages. Four of the six kinds use it; the mixed spellings are
	// wire-visible and clients match on the exact text.
	Authorised bool

	store *storage.Kind
}

// newKind derives the storage descriptor from the schema.
func newKind(name, plural string, fields []Field) *Kind {
	k := &Kind{Name: name, Plural: plural, Fields: fields}
	sk := &storage.Kind{Name: name, Table: plural}
	for _, f := range fields {
		sk.Fields = append(sk.Fields, f.Name)
		if f.Unique {
			sk.Unique = append(sk.Unique, storage.UniqueField{
				Field:   f.Name,
				Message: f.UniqueMessage,
			})
		}
	}
	k.store = sk
	return k
}

// Storage returns the storage-facing descriptor for this kind.
func (k *Kind) Storage() *storage.Kind {
	return k.store
}

// Validate evaluates payload against the schema and returns the complete
// ordered list of violation messages. An empty slice means the payload is
// valid. Fields not named in the schema are ignored.
func (k *Kind) Validate(payload map[string]string) []string {
	return ValidateFields(k.Fields, payload)
}

// ValidateFields runs the shared schema evaluation used by the six
// resource kinds and the user account schema. Messages are collected in
// schema order so a client can fix every problem in one resubmission.
func ValidateFields(fields []Field, payload map[string]string) []string {
	var messages []string
	for _, f := range fields {
		value, present := payload[f.Name]

		if !present {
			if f.Required {
				messages = append(messages, f.RequiredMessage)
			}
			continue
		}

		if value == "" {
			if f.EmptyMessage != "" {
				messages = append(messages, f.EmptyMessage)
			} else if f.Required {
				messages = append(messages, f.RequiredMessage)
			}
			continue
		}

		for _, c := range f.Checks {
			if !c.Valid(value) {
				messages = append(messages, c.Message)
			}
		}
	}
	return messages
}

// titleName returns the kind name with the first letter capitalized, for
// use in not-found messages ("Patent Not Found").
func (k *Kind) titleName() string {
	if k.Name == "" {
		return ""
	}
	b := []byte(k.Name)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// ForbiddenMessage is the ownership guard message for op ("update" or
// "delete").
func (k *Kind) ForbiddenMessage(op string) string {
	word := "authorized"
	if k.Authorised {
		word = "authorised"
	}
	return fmt.Sprintf("You are not %s to %s this %s.", word, op, k.Name)
}

// NotFoundMessage is the message for missing records on write paths.
func (k *Kind) NotFoundMessage() string {
	return k.titleName() + " Not Found"
}

// DetailNotFoundMessage is the message for missing records on the public
// detail read.
func (k *Kind) DetailNotFoundMessage() string {
	return fmt.Sprintf("Sorry, we couldn't find the %s you were looking for.", k.Name)
}

// CoercePayload flattens a decoded JSON object into the string-keyed,
// string-valued form the schema engine evaluates. JSON null means the
// field was not supplied. Numbers and booleans are rendered in their
// canonical string form so clients may send either representation.
func CoercePayload(body map[string]any) map[string]string {
	payload := make(map[string]string, len(body))
	for name, v := range body {
		switch val := v.(type) {
		case nil:
			// Treated as absent.
		case string:
			payload[name] = val
		case json.Number:
			payload[name] = val.String()
		case float64:
			payload[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			payload[name] = strconv.FormatBool(val)
		default:
			payload[name] = fmt.Sprint(val)
		}
	}
	return payload
}
