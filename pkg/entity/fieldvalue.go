package entity

import (
	"errors"
	"regexp"
	"time"

	"github.com/bytedance/sonic"
)

type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldBoolean FieldKind = "boolean"
	FieldDate    FieldKind = "date"
)

func (k FieldKind) Valid() bool {
	switch k {
	case FieldText, FieldNumber, FieldBoolean, FieldDate:
		return true
	}
	return false
}

// CustomFieldDef is one field definition carried by a task type.
type CustomFieldDef struct {
	Name  string    `json:"name"`
	Kind  FieldKind `json:"type"`
	Label string    `json:"label"`
}

var dateValueRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldValue is a tagged union for custom field values. On the wire it is a
// plain JSON scalar; the kind is recovered from the JSON type (strings of
// the form YYYY-MM-DD become dates).
type FieldValue struct {
	Kind   FieldKind
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
}

func TextValue(s string) FieldValue    { return FieldValue{Kind: FieldText, Text: s} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Number: n} }
func BoolValue(b bool) FieldValue      { return FieldValue{Kind: FieldBoolean, Bool: b} }
func DateValue(t time.Time) FieldValue { return FieldValue{Kind: FieldDate, Date: t} }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldNumber:
		return sonic.Marshal(v.Number)
	case FieldBoolean:
		return sonic.Marshal(v.Bool)
	case FieldDate:
		return sonic.Marshal(v.Date.UTC().Format("2006-01-02"))
	default:
		return sonic.Marshal(v.Text)
	}
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case bool:
		*v = BoolValue(val)
	case float64:
		*v = NumberValue(val)
	case string:
		if dateValueRe.MatchString(val) {
			d, err := time.ParseInLocation("2006-01-02", val, time.UTC)
			if err == nil {
				*v = DateValue(d)
				return nil
			}
		}
		*v = TextValue(val)
	case nil:
		*v = TextValue("")
	default:
		return errors.New("custom field value must be a scalar")
	}
	return nil
}

// Matches reports whether the value satisfies a field definition's kind.
// Dates also accept plain text that parses as YYYY-MM-DD.
func (v FieldValue) Matches(kind FieldKind) bool {
	if v.Kind == kind {
		return true
	}
	if kind == FieldText && v.Kind == FieldDate {
		return true
	}
	return false
}
