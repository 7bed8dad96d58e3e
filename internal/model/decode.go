package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report wire names instead of go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeError is returned when a response body does not match the record shape.
type DecodeError struct {
	Resource string
	// Index of the offending record in a list, -1 for a single record.
	Index  int
	Fields []string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode ")
	b.WriteString(e.Resource)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, ": invalid fields %s", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Validate checks a record against its validate tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// DecodeList decodes a json array of records and validates every element.
func DecodeList[T any](resource string, data []byte) ([]T, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &DecodeError{Resource: resource, Index: -1, Fields: typeErrorFields(err), Err: err}
	}

	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return nil, validationError(resource, i, err)
		}
	}

	if records == nil {
		records = make([]T, 0)
	}

	return records, nil
}

// DecodeOne decodes a single json record and validates it.
func DecodeOne[T any](resource string, data []byte) (T, error) {
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return record, &DecodeError{Resource: resource, Index: -1, Fields: typeErrorFields(err), Err: err}
	}

	if err := validate.Struct(record); err != nil {
		var zero T
		return zero, validationError(resource, -1, err)
	}

	return record, nil
}

func validationError(resource string, index int, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &DecodeError{Resource: resource, Index: index, Err: err}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}

	return &DecodeError{
		Resource: resource,
		Index:    index,
		Fields:   fields,
		Err:      errors.New("missing or empty required fields"),
	}
}

func typeErrorFields(err error) []string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []string{typeErr.Field}
	}
	return nil
}
