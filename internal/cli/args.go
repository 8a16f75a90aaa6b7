package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder"
)

var (
	ErrArgumentCountMismatch  = errors.New("argument count does not match the method")
	ErrUnsupportedParamKind   = errors.New("unsupported parameter kind")
	ErrArgumentConversionFail = errors.New("argument could not be converted")
)

// convertArgs converts command line arguments into values of the method's parameter types.
// Slice parameters take a comma separated list.
func convertArgs(method querybuilder.MethodSignature, raw []string) ([]any, error) {
	if len(raw) != method.NumParams() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d",
			ErrArgumentCountMismatch, method.Name(), method.NumParams(), len(raw))
	}

	args := make([]any, 0, len(raw))
	for i, arg := range raw {
		value, err := convertArg(method.Param(i), arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i+1, method.Name(), err)
		}

		args = append(args, value.Interface())
	}

	return args, nil
}

func convertArg(typ reflect.Type, raw string) (reflect.Value, error) {
	value := reflect.New(typ).Elem()

	switch typ.Kind() {
	case reflect.String:
		value.SetString(raw)

	case reflect.Bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, errors.Join(ErrArgumentConversionFail, err)
		}

		value.SetBool(parsed)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, errors.Join(ErrArgumentConversionFail, err)
		}

		value.SetInt(parsed)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, errors.Join(ErrArgumentConversionFail, err)
		}

		value.SetUint(parsed)

	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(raw, typ.Bits())
		if err != nil {
			return reflect.Value{}, errors.Join(ErrArgumentConversionFail, err)
		}

		value.SetFloat(parsed)

	case reflect.Slice:
		parts := []string{}
		if raw != "" {
			parts = strings.Split(raw, ",")
		}

		slice := reflect.MakeSlice(typ, 0, len(parts))
		for _, part := range parts {
			element, err := convertArg(typ.Elem(), strings.TrimSpace(part))
			if err != nil {
				return reflect.Value{}, err
			}

			slice = reflect.Append(slice, element)
		}

		value.Set(slice)

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedParamKind, typ)
	}

	return value, nil
}
