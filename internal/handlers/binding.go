package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldKind is the JSON type a request field must have.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindInteger FieldKind = "integer"
)

// Field describes one request body field.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"type"`
	Required bool      `json:"required"`

	structField string
}

// Schema lists the body fields of a request type in declaration order.
type Schema []Field

// CreateVideoSchema returns the fields accepted when creating a video.
func CreateVideoSchema() Schema { return describe(CreateVideoRequest{}) }

// UpdateVideoSchema returns the fields accepted when updating a video.
func UpdateVideoSchema() Schema { return describe(UpdateVideoRequest{}) }

// describe reads the json and binding tags of a request struct.
func describe(req any) Schema {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schema := make(Schema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		kind := KindString
		switch ft.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			kind = KindInteger
		}
		schema = append(schema, Field{
			Name:        name,
			Kind:        kind,
			Required:    slices.Contains(strings.Split(f.Tag.Get("binding"), ","), "required"),
			structField: f.Name,
		})
	}
	return schema
}

func (s Schema) byStructField(name string) (Field, bool) {
	for _, f := range s {
		if f.structField == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) byName(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldError is a single rejected field.
type FieldError struct {
	Field   string
	Problem string
}

// ValidationError lists the rejected fields of a request body. Field is
// empty when the body as a whole could not be used.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field == "" {
			parts = append(parts, p.Problem)
			continue
		}
		parts = append(parts, p.Field+" "+p.Problem)
	}
	return "invalid request body: " + strings.Join(parts, ", ")
}

// Fields returns the problems keyed by field name.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field != "" {
			fields[p.Field] = p.Problem
		}
	}
	return fields
}

// bindJSON binds the request body into req and validates its binding tags.
// An empty body binds like an empty object. Failures come back as a
// *ValidationError naming the JSON fields involved.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return nil
	}
	return translateBindError(describe(req), err)
}

func translateBindError(schema Schema, err error) error {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &fieldErrs):
		problems := make([]FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			name := fe.Field()
			if f, ok := schema.byStructField(fe.StructField()); ok {
				name = f.Name
			}
			problem := "failed " + fe.Tag()
			if fe.Tag() == "required" {
				problem = "is required"
			}
			problems = append(problems, FieldError{Field: name, Problem: problem})
		}
		return &ValidationError{Problems: problems}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		problem := "has the wrong type"
		if f, ok := schema.byName(typeErr.Field); ok {
			problem = "must be a " + string(f.Kind)
			if f.Kind == KindInteger {
				problem = "must be an integer"
			}
		}
		return &ValidationError{Problems: []FieldError{{Field: typeErr.Field, Problem: problem}}}
	case errors.As(err, &typeErr), errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Problems: []FieldError{{Problem: "body must be a JSON object"}}}
	default:
		return err
	}
}
