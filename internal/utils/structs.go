package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return v
}

// eachColumn calls fn for every exported field carrying a usable db tag, in
// declaration order.
func eachColumn(v reflect.Value, fn func(column string, field reflect.Value)) {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		column := sf.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, v.Field(i))
	}
}

// StructTagValues lists the db columns of a struct.
func StructTagValues(input any) []string {
	v := structValue(input)

	result := make([]string, 0, v.NumField())
	eachColumn(v, func(column string, _ reflect.Value) {
		result = append(result, column)
	})

	return result
}

// StructToMap maps db columns to field values, ready for squirrel SetMap.
func StructToMap(input any) map[string]any {
	v := structValue(input)

	result := make(map[string]any, v.NumField())
	eachColumn(v, func(column string, field reflect.Value) {
		result[column] = field.Interface()
	})

	return result
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
