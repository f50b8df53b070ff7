package internal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"go.eggybyte.com/flagx/core/value"
)

// BindToStruct binds a resolved snapshot into struct fields tagged
// `flag:"key"`. An unresolved key falls back to the field's `default` tag;
// without one the field keeps its zero value. Struct, map and slice fields
// accept JSON values.
func BindToStruct(snap *value.Snapshot, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}
	return bindStructFields(snap, targetValue.Elem())
}

func bindStructFields(snap *value.Snapshot, structValue reflect.Value) error {
	structType := structValue.Type()

	for i := 0; i < structValue.NumField(); i++ {
		field := structValue.Field(i)
		fieldType := structType.Field(i)

		if !field.CanSet() {
			continue
		}

		tag := fieldType.Tag.Get("flag")
		if tag == "" {
			// Untagged structs recurse so embedded config sections work.
			if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
				if err := bindStructFields(snap, field); err != nil {
					return fmt.Errorf("failed to bind nested struct %s: %w", fieldType.Name, err)
				}
			}
			continue
		}

		resolved := snap.Get(tag)
		if resolved.Value.IsAbsent() {
			def := fieldType.Tag.Get("default")
			if def == "" {
				continue
			}
			if err := setFieldFromString(field, def); err != nil {
				return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
			}
			continue
		}

		if err := setFieldFromValue(field, resolved.Value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldFromValue(field reflect.Value, v value.Value) error {
	// Structured fields take the JSON payload directly.
	switch field.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice:
		raw, err := json.Marshal(v.JSONOr(v.Raw()))
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, field.Addr().Interface())
	}
	return setFieldFromString(field, v.String())
}

func setFieldFromString(field reflect.Value, value string) error {
	if value == "" {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
			return nil
		}
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(uintValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
