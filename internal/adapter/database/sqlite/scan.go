package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scanner maps sql.Rows columns onto struct fields by name, tolerating
// snake_case column names against CamelCase fields.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destElem := destValue.Elem()
	destType := destElem.Type()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	if !rows.Next() {
		return sql.ErrNoRows
	}

	return s.scanCurrentRow(rows, columns, destElem, destType)
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		elemValue := reflect.New(elemType)

		if err := s.scanCurrentRow(rows, columns, elemValue.Elem(), elemType); err != nil {
			return err
		}

		sliceValue.Set(reflect.Append(sliceValue, elemValue.Elem()))
	}

	return rows.Err()
}

func (s *Scanner) scanCurrentRow(rows *sql.Rows, columns []string, destElem reflect.Value, destType reflect.Type) error {
	scanArgs := make([]interface{}, len(columns))
	for i := range scanArgs {
		scanArgs[i] = new(interface{})
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	for i, colName := range columns {
		val := *(scanArgs[i].(*interface{}))

		field := s.findStructField(destType, colName)

		if field.Name == "" || field.Type == nil {
			continue
		}

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val); err != nil {
			slog.Warn("Failed to set field", "field", field.Name, "error", err)
		}
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) reflect.StructField {
	colNameLower := strings.ToLower(colName)
	colNameFlat := strings.ReplaceAll(colNameLower, "_", "")

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if strings.ToLower(field.Name) == colNameLower || strings.ToLower(field.Name) == colNameFlat {
			return field
		}
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if tag := field.Tag.Get("db"); tag != "" && strings.ToLower(tag) == colNameLower {
			return field
		}
	}

	return reflect.StructField{}
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if val == nil {
		return nil
	}

	fieldType := field.Type()

	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		if str, ok := val.(string); ok {
			field.SetString(str)
			return nil
		}
	case reflect.Int, reflect.Int64:
		switch v := val.(type) {
		case int64:
			field.SetInt(v)
			return nil
		case int:
			field.SetInt(int64(v))
			return nil
		}
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
			return nil
		case int64:
			field.SetBool(v != 0)
			return nil
		}
	case reflect.Float64, reflect.Float32:
		if f, ok := val.(float64); ok {
			field.SetFloat(f)
			return nil
		}
	}

	switch fieldType.String() {
	case "uuid.UUID":
		if str, ok := val.(string); ok {
			parsedUUID, err := uuid.Parse(str)

			if err != nil {
				return fmt.Errorf("parse uuid %q: %w", str, err)
			}

			field.Set(reflect.ValueOf(parsedUUID))
			return nil
		}
	case "time.Time":
		t, err := parseTimeValue(val)

		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(t))
		return nil
	case "*time.Time":
		t, err := parseTimeValue(val)

		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(&t))
		return nil
	}

	return fmt.Errorf("unsupported column value %T for field type %s", val, fieldType)
}

func parseTimeValue(val interface{}) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}

		return time.Time{}, fmt.Errorf("unparseable time %q", v)
	default:
		return time.Time{}, fmt.Errorf("unsupported time value %T", val)
	}
}
