package domain

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	LangEN = "en"
	LangHE = "he"

	DefaultLang = LangEN
)

// NormalizeLang collapses anything outside the supported set to the default.
func NormalizeLang(lang string) string {
	switch lang {
	case LangEN, LangHE:
		return lang
	}
	return DefaultLang
}

// Payload is what a localized field can carry per language.
type Payload interface {
	string | []string
}

// Localized is a tagged variant: either a plain scalar/list, or a mapping
// from language code to scalar/list. Catalog documents store either shape,
// never both in one field.
type Localized[T Payload] struct {
	value  T
	byLang map[string]T
	tagged bool
}

func Scalar[T Payload](v T) Localized[T] {
	return Localized[T]{value: v}
}

func ByLanguage[T Payload](m map[string]T) Localized[T] {
	return Localized[T]{byLang: m, tagged: true}
}

// Resolve picks the display value for lang. For the mapping shape the chain
// is: requested language if non-empty, then the default language, then the
// first non-empty entry in sorted key order. A plain value is returned
// unchanged regardless of lang. Resolve never mutates the receiver.
func (l Localized[T]) Resolve(lang string) (T, bool) {
	if !l.tagged {
		return l.value, !blank(l.value)
	}
	if v, ok := l.byLang[lang]; ok && !blank(v) {
		return v, true
	}
	if v, ok := l.byLang[DefaultLang]; ok && !blank(v) {
		return v, true
	}
	keys := make([]string, 0, len(l.byLang))
	for k := range l.byLang {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := l.byLang[k]; !blank(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func blank[T Payload](v T) bool {
	switch x := any(v).(type) {
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func (l *Localized[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = Localized[T]{}
		return nil
	case bsontype.EmbeddedDocument:
		m := map[string]T{}
		if err := bson.UnmarshalValue(t, data, &m); err != nil {
			return err
		}
		*l = Localized[T]{byLang: m, tagged: true}
		return nil
	default:
		var v T
		if err := bson.UnmarshalValue(t, data, &v); err != nil {
			return err
		}
		*l = Localized[T]{value: v}
		return nil
	}
}

func (l Localized[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if l.tagged {
		return bson.MarshalValue(l.byLang)
	}
	return bson.MarshalValue(l.value)
}
