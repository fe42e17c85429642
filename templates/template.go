// Package templates defines the per-service request templates for the
// Integra Contador gateway: a registry keyed by (idSistema, idServico),
// input validation, and request envelope construction.
package templates

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidServiceData = errors.New("templates: invalid service data")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "templates: invalid service data"
	}
	if e.Field == "" {
		return fmt.Sprintf("templates: %s", e.Message)
	}
	return fmt.Sprintf("templates: field %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidServiceData
}

// Descriptor identifies a template and the gateway endpoint it targets.
type Descriptor struct {
	System   string
	Service  string
	Version  string
	Endpoint string
}

type ValidateFunc func(dados map[string]any) (map[string]any, error)

// Template validates and serializes the service-specific `dados` block.
type Template interface {
	Descriptor() Descriptor
	Validate(dados map[string]any) (map[string]any, error)
	SerializeDados(validated map[string]any) (string, error)
}

// Definition is the table-driven template implementation. Validation is
// a pure function of the input data.
type Definition struct {
	System   string
	Service  string
	Version  string
	Endpoint string

	// BlankDadosWhenEmpty serializes an empty validated map as "" rather
	// than "{}"; some services reject the literal empty object.
	BlankDadosWhenEmpty bool

	ValidateFunc ValidateFunc
}

func (d Definition) Descriptor() Descriptor {
	return Descriptor{
		System:   d.System,
		Service:  d.Service,
		Version:  d.Version,
		Endpoint: d.Endpoint,
	}
}

func (d Definition) Validate(dados map[string]any) (map[string]any, error) {
	if d.ValidateFunc == nil {
		if dados == nil {
			return map[string]any{}, nil
		}
		return dados, nil
	}
	if dados == nil {
		dados = map[string]any{}
	}
	return d.ValidateFunc(dados)
}

// SerializeDados renders compact JSON without HTML escaping, matching
// the serialization the gateway expects inside the envelope.
func (d Definition) SerializeDados(validated map[string]any) (string, error) {
	if d.BlankDadosWhenEmpty && len(validated) == 0 {
		return "", nil
	}
	if validated == nil {
		validated = map[string]any{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(validated); err != nil {
		return "", fmt.Errorf("templates: serialize dados: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

var _ Template = Definition{}

// Validation helpers shared by the service definitions.

func requireFields(dados map[string]any, fields ...string) error {
	var missing []string
	for _, field := range fields {
		if _, ok := dados[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "missing required fields: " + strings.Join(missing, ", ")}
	}
	return nil
}

// asString accepts strings and JSON numbers, normalizing both to a
// string. JSON decoding turns numbers into float64.
func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10), true
		}
		return "", false
	default:
		return "", false
	}
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		if typed == float64(int64(typed)) {
			return int(typed), true
		}
		return 0, false
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func nonEmptyStringField(dados map[string]any, field string) (string, error) {
	value, ok := asString(dados[field])
	if !ok {
		return "", &ValidationError{Field: field, Message: "must be a string"}
	}
	if strings.TrimSpace(value) == "" {
		return "", &ValidationError{Field: field, Message: "cannot be empty"}
	}
	return value, nil
}

func trimmed(value string) string {
	return strings.TrimSpace(value)
}

func atoiSafe(value string) int {
	parsed, _ := strconv.Atoi(value)
	return parsed
}

func digitsOnly(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// periodField validates a YYYYMM competence period between 190001 and
// 210012 and returns it as a string.
func periodField(dados map[string]any, field string) (string, error) {
	value, ok := asString(dados[field])
	if !ok {
		return "", &ValidationError{Field: field, Message: "must be a string"}
	}
	if len(value) != 6 || !digitsOnly(value) {
		return "", &ValidationError{Field: field, Message: "must be in YYYYMM format (e.g. \"201901\")"}
	}
	parsed, _ := strconv.Atoi(value)
	if parsed < 190000 || parsed > 210012 {
		return "", &ValidationError{Field: field, Message: "must be in YYYYMM format (e.g. \"201901\")"}
	}
	return value, nil
}

// yearField validates a 4-digit year string.
func yearField(dados map[string]any, field string) (string, error) {
	value, ok := asString(dados[field])
	if !ok {
		return "", &ValidationError{Field: field, Message: "must be a string or integer"}
	}
	value = strings.TrimSpace(value)
	if len(value) != 4 || !digitsOnly(value) {
		return "", &ValidationError{Field: field, Message: "must be a 4-digit year"}
	}
	return value, nil
}

// calendarYearField additionally bounds the year to 1900..2100.
func calendarYearField(dados map[string]any, field string) (string, error) {
	value, err := yearField(dados, field)
	if err != nil {
		return "", err
	}
	parsed, _ := strconv.Atoi(value)
	if parsed < 1900 || parsed > 2100 {
		return "", &ValidationError{Field: field, Message: "must be a valid year between 1900 and 2100"}
	}
	return value, nil
}

// monthField validates a 1-12 month and zero-pads it to two digits.
func monthField(dados map[string]any, field string) (string, error) {
	value, ok := asString(dados[field])
	if !ok {
		return "", &ValidationError{Field: field, Message: "must be a string or integer"}
	}
	value = strings.TrimSpace(value)
	if !digitsOnly(value) {
		return "", &ValidationError{Field: field, Message: "must be a valid month (1-12)"}
	}
	parsed, _ := strconv.Atoi(value)
	if parsed < 1 || parsed > 12 {
		return "", &ValidationError{Field: field, Message: "must be a valid month (1-12)"}
	}
	return fmt.Sprintf("%02d", parsed), nil
}

func positiveIntField(dados map[string]any, field string) (int, error) {
	value, ok := asInt(dados[field])
	if !ok {
		return 0, &ValidationError{Field: field, Message: "must be an integer"}
	}
	if value <= 0 {
		return 0, &ValidationError{Field: field, Message: "must be positive"}
	}
	return value, nil
}

func base64Field(dados map[string]any, field string) (string, error) {
	value, err := nonEmptyStringField(dados, field)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if _, decodeErr := base64.StdEncoding.DecodeString(value); decodeErr != nil {
		return "", &ValidationError{Field: field, Message: "must be a valid Base64 encoded string"}
	}
	return value, nil
}

// rejectInput fails when any non-empty field is present; services with
// no input derive everything from the request parties.
func rejectInput(service string) ValidateFunc {
	return func(dados map[string]any) (map[string]any, error) {
		for key, value := range dados {
			if value == nil {
				continue
			}
			if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
				continue
			}
			return nil, &ValidationError{
				Field:   key,
				Message: fmt.Sprintf("service %s does not accept input data", service),
			}
		}
		return map[string]any{}, nil
	}
}
