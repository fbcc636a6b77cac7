package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody reads a JSON body into dst and validates it. An empty body
// decodes as {}, so required fields are reported rather than a parse error.
// A false return means the 400 has been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var errs []FieldError
	err := dec.Decode(dst)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, io.EOF):
	case errors.As(err, &typeErr) && typeErr.Field != "":
		errs = append(errs, FieldError{
			Type:     "field",
			Msg:      fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type)),
			Path:     typeErr.Field,
			Location: "body",
		})
	default:
		writeFieldErrors(w, []FieldError{{Type: "body", Msg: "request body must be a JSON object", Location: "body"}})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeFieldErrors(w, []FieldError{{Type: "body", Msg: err.Error(), Location: "body"}})
			return false
		}
		for _, fe := range verrs {
			path := fieldPath(fe.Namespace())
			if hasPath(errs, path) {
				continue
			}
			errs = append(errs, FieldError{
				Type:     "field",
				Value:    fe.Value(),
				Msg:      message(path, fe),
				Path:     path,
				Location: "body",
			})
		}
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeFieldErrors(w, []FieldError{{
			Type: "field", Value: raw, Msg: name + " must be a positive integer", Path: name, Location: "params",
		}})
		return 0, false
	}
	return id, true
}

// fieldPath drops the struct name: "startAttemptRequest.student_id" -> "student_id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func hasPath(errs []FieldError, path string) bool {
	for _, e := range errs {
		if e.Path == path {
			return true
		}
	}
	return false
}

func message(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "email":
		return path + " must be a valid email"
	case "gt":
		return path + " must be a positive integer"
	case "oneof":
		return path + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice:
		return "an array"
	}
	return "a valid " + t.Kind().String()
}
