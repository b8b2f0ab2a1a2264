package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]+$`)

// Validator wraps go-playground/validator so Echo can call c.Validate(req).
// Every violation is reported, ordered by struct field declaration.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator ready to be assigned to echo.Echo.Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("price2", func(fl validator.FieldLevel) bool {
		cents := fl.Field().Float() * 100
		return math.Abs(cents-math.Round(cents)) < 1e-6
	})
	return &Validator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *Validator) Validate(i any) error {
	return ev.check(i, nil)
}

// violation is one message attached to the top-level field it belongs to.
type violation struct {
	field int
	msg   string
}

func (ev *Validator) check(i any, typeErrs []violation) error {
	violations := append([]violation(nil), typeErrs...)
	skip := make(map[int]bool, len(typeErrs))
	for _, te := range typeErrs {
		skip[te.field] = true
	}

	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		t := indirectType(reflect.TypeOf(i))
		for _, fe := range ve {
			idx := topLevelIndex(t, fe.StructNamespace())
			if skip[idx] {
				continue
			}
			violations = append(violations, violation{field: idx, msg: fieldError(fe)})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	sort.SliceStable(violations, func(a, b int) bool { return violations[a].field < violations[b].field })
	return domain.NewValidationError(messages(violations))
}

// fieldError converts a single FieldError into a client-facing message.
func fieldError(fe validator.FieldError) string {
	field := `"` + fieldPath(fe) + `"`
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return field + " est requis"
	case "email":
		return field + " doit être un email valide"
	case "gt":
		return fmt.Sprintf("%s doit être supérieur à %s", field, fe.Param())
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s doit contenir au moins %s caractères", field, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s doit contenir au moins %s élément(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s doit être supérieur ou égal à %s", field, fe.Param())
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("%s doit contenir au plus %s caractères", field, fe.Param())
		}
		return fmt.Sprintf("%s doit être inférieur ou égal à %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s doit être l'une des valeurs: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "sku":
		return field + " ne doit contenir que des lettres, chiffres, tirets et underscores"
	case "price2":
		return field + " doit avoir au plus 2 décimales"
	case "mongodb":
		return field + " doit être un identifiant valide"
	default:
		return fmt.Sprintf("%s est invalide (%s)", field, fe.Tag())
	}
}

// fieldPath renders the JSON path of fe without the root struct name,
// e.g. items[0].product.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// bindAndValidate decodes the JSON body of c into req field by field, so that
// every type mismatch is reported alongside the rule violations, then runs
// the validator. Unknown fields are ignored. req must be a pointer to struct.
func bindAndValidate(c echo.Context, req any) error {
	typeErrs, err := decodeFields(c.Request().Body, req)
	if err != nil {
		return err
	}
	if n, ok := req.(interface{ normalize() }); ok {
		n.normalize()
	}

	if ev, ok := c.Echo().Validator.(*Validator); ok {
		return ev.check(req, typeErrs)
	}
	if len(typeErrs) > 0 {
		return domain.NewValidationError(messages(typeErrs))
	}
	return c.Validate(req)
}

var errMalformedBody = domain.NewValidationError([]string{"Corps de requête JSON invalide"})

func decodeFields(body io.Reader, req any) ([]violation, error) {
	raw := map[string]json.RawMessage{}
	if body != nil {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, errMalformedBody
			}
		}
	}

	rv := reflect.ValueOf(req).Elem()
	rt := rv.Type()
	var out []violation
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, rv.Field(i).Addr().Interface()); err != nil {
			out = append(out, violation{field: i, msg: typeError(name, f.Type, err)})
		}
	}
	return out, nil
}

func typeError(name string, t reflect.Type, err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" && ute.Field != name {
		return fmt.Sprintf(`"%s.%s" doit être de type %s`, name, ute.Field, typeLabel(ute.Type))
	}
	return fmt.Sprintf(`"%s" doit être de type %s`, name, typeLabel(t))
}

func typeLabel(t reflect.Type) string {
	t = indirectType(t)
	switch t.Kind() {
	case reflect.String:
		return "chaîne de caractères"
	case reflect.Bool:
		return "booléen"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "entier"
	case reflect.Float32, reflect.Float64:
		return "nombre"
	case reflect.Slice, reflect.Array:
		return "tableau"
	default:
		return "objet"
	}
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// topLevelIndex maps "Root.Items[0].ProductID" to the index of Items in t.
func topLevelIndex(t reflect.Type, structNS string) int {
	parts := strings.SplitN(structNS, ".", 3)
	if len(parts) < 2 || t == nil || t.Kind() != reflect.Struct {
		return math.MaxInt32
	}
	name := parts[1]
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if f, ok := t.FieldByName(name); ok && len(f.Index) > 0 {
		return f.Index[0]
	}
	return math.MaxInt32
}

func messages(vs []violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.msg
	}
	return out
}
