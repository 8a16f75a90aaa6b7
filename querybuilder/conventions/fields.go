package conventions

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

const (
	tagBSON = "bson"
	tagJSON = "json"
	tagSkip = "-"
)

// entityField is a struct field of an entity addressed by a method name segment.
type entityField struct {
	document string
	typ      reflect.Type
}

// lookupField finds the exported struct field called goName and derives its document field name:
// the bson tag, else the json tag, else goName with a lower-case first letter.
func lookupField(entity querybuilder.EntityType, goName string) (entityField, bool) {
	if entity.IsZero() || goName == "" {
		return entityField{}, false
	}

	structField, found := entity.Type().FieldByName(goName)
	if !found || !structField.IsExported() {
		return entityField{}, false
	}

	document := lowerFirst(goName)

	for _, tag := range []string{tagBSON, tagJSON} {
		name, ok := tagName(structField.Tag, tag)
		if !ok {
			continue
		}

		if name == tagSkip {
			return entityField{}, false
		}

		document = name

		break
	}

	return entityField{document: document, typ: structField.Type}, true
}

func tagName(tag reflect.StructTag, key string) (string, bool) {
	value, ok := tag.Lookup(key)
	if !ok {
		return "", false
	}

	name, _, _ := strings.Cut(value, ",")
	if name == "" {
		return "", false
	}

	return name, true
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

// accepts reports whether a parameter of type param can be stored in the field.
func (f entityField) accepts(param reflect.Type) bool {
	if param.AssignableTo(f.typ) {
		return true
	}

	return f.typ.Kind() == reflect.Pointer && param.AssignableTo(f.typ.Elem())
}

func (f entityField) isNumeric() bool {
	return isNumericKind(derefType(f.typ).Kind())
}

// acceptsAmount reports whether an amount of type amount can be added to the field:
// integer fields take integer amounts only, float fields take any number.
func (f entityField) acceptsAmount(amount reflect.Type) bool {
	if amount == nil || !isNumericKind(amount.Kind()) {
		return false
	}

	if isFloatKind(derefType(f.typ).Kind()) {
		return true
	}

	return !isFloatKind(amount.Kind())
}

func derefType(typ reflect.Type) reflect.Type {
	if typ.Kind() == reflect.Pointer {
		return typ.Elem()
	}

	return typ
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isFloatKind(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}

/***** argument checks used by the generators *****/

func expectArgCount(invocation querybuilder.Invocation, expected int) error {
	if invocation.NumArgs() != expected {
		return fmt.Errorf(
			"%w: %s expects %d, got %d",
			ErrArgumentCount,
			invocation.Method().QualifiedName(),
			expected,
			invocation.NumArgs(),
		)
	}

	return nil
}

// argFor returns the n-th argument after checking it can be stored in the field.
func argFor(invocation querybuilder.Invocation, n int, field entityField) (any, error) {
	arg, _ := invocation.Arg(n)

	if arg == nil {
		switch field.typ.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: argument %d of %s is nil", ErrArgumentType, n, invocation.Method().QualifiedName())
		}
	}

	if !field.accepts(reflect.TypeOf(arg)) {
		return nil, fmt.Errorf(
			"%w: argument %d of %s is %T, field %q is %s",
			ErrArgumentType,
			n,
			invocation.Method().QualifiedName(),
			arg,
			field.document,
			field.typ,
		)
	}

	return arg, nil
}

// sliceArg returns the n-th argument, which must be a slice of values the field accepts, as []any.
func sliceArg(invocation querybuilder.Invocation, n int, field entityField) ([]any, error) {
	arg, _ := invocation.Arg(n)

	value := reflect.ValueOf(arg)
	if !value.IsValid() || value.Kind() != reflect.Slice || !field.accepts(value.Type().Elem()) {
		return nil, fmt.Errorf(
			"%w: argument %d of %s must be a slice of %s, got %T",
			ErrArgumentType,
			n,
			invocation.Method().QualifiedName(),
			field.typ,
			arg,
		)
	}

	values := make([]any, 0, value.Len())
	for i := range value.Len() {
		values = append(values, value.Index(i).Interface())
	}

	return values, nil
}

func argumentTypeError(invocation querybuilder.Invocation, n int, expected string, got any) error {
	return fmt.Errorf(
		"%w: argument %d of %s must be %s, got %T",
		ErrArgumentType,
		n,
		invocation.Method().QualifiedName(),
		expected,
		got,
	)
}
