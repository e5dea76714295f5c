package agentform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"agentconsole/internal/model"
	"agentconsole/pkg/interfaces"

	"github.com/go-playground/validator/v10"
)

// Validation codes
const (
	CodeInvalidIP     = "invalid-ip"
	CodeMissingIP     = "missing-ip"
	CodeMissingImage  = "missing-image"
	CodeMissingValue  = "missing-value"
	CodeOutOfRange    = "out-of-range"
	CodeInvalidOption = "invalid-option"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateIP passes for the empty string and for any IPv4 or IPv6 literal
func ValidateIP(value string) error {
	if value == "" {
		return nil
	}
	if err := validate.Var(value, "ip"); err != nil {
		return &FieldError{Field: model.FieldIP, Code: CodeInvalidIP, MessageID: MsgErrorIP}
	}
	return nil
}

// FieldError single field validation failure
type FieldError struct {
	Field     string `json:"field"`
	Code      string `json:"code"`
	MessageID string `json:"message_id"`
	Message   string `json:"message,omitempty"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// ValidationError aggregates field errors in form order
type ValidationError struct {
	Errors []*FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// First returns the first invalid field in form order, the one to scroll to
func (e *ValidationError) First() *FieldError {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// Field returns the error for key, or nil
func (e *ValidationError) Field(key string) *FieldError {
	for _, fe := range e.Errors {
		if fe.Field == key {
			return fe
		}
	}
	return nil
}

// Localize fills Message on every field error
func (e *ValidationError) Localize(localizer interfaces.Localizer) {
	for _, fe := range e.Errors {
		fe.Message = resolve(localizer, fe.MessageID, nil)
	}
}

// ValidateDraft runs every field rule for mode. Disabled fields are skipped.
// Returns *ValidationError when at least one field fails.
func ValidateDraft(mode model.FormMode, draft *model.AgentDraft) error {
	fields := Fields(mode)
	var skip []string
	for _, f := range fields {
		if f.Disabled {
			skip = append(skip, structFieldName(f.Key))
		}
	}

	var err error
	if len(skip) > 0 {
		err = validate.StructExcept(draft, skip...)
	} else {
		err = validate.Struct(draft)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate agent draft: %w", err)
	}

	byField := make(map[string]*FieldError, len(verrs))
	for _, fe := range verrs {
		key := fe.Field()
		if _, seen := byField[key]; seen {
			continue
		}
		byField[key] = toFieldError(key, fe.Tag())
	}

	result := &ValidationError{}
	for _, f := range fields {
		if fe, ok := byField[f.Key]; ok {
			result.Errors = append(result.Errors, fe)
		}
	}
	return result
}

func toFieldError(key, tag string) *FieldError {
	fe := &FieldError{Field: key}
	switch key {
	case model.FieldIP:
		if tag == "required" {
			fe.Code, fe.MessageID = CodeMissingIP, MsgRequiredIP
		} else {
			fe.Code, fe.MessageID = CodeInvalidIP, MsgErrorIP
		}
	case model.FieldImage:
		fe.Code, fe.MessageID = CodeMissingImage, MsgRequiredImage
	case model.FieldCapacity, model.FieldNodeCapacity:
		fe.MessageID = MsgRequiredCapacity
		if key == model.FieldNodeCapacity {
			fe.MessageID = MsgRequiredNodeCapacity
		}
		if tag == "required" {
			fe.Code = CodeMissingValue
		} else {
			fe.Code = CodeOutOfRange
		}
	case model.FieldType:
		fe.MessageID = MsgRequiredType
		if tag == "required" {
			fe.Code = CodeMissingValue
		} else {
			fe.Code = CodeInvalidOption
		}
	case model.FieldLogLevel:
		fe.Code, fe.MessageID = CodeInvalidOption, MsgRequiredLogLevel
	default:
		fe.Code, fe.MessageID = CodeMissingValue, ""
	}
	return fe
}

// structFieldName maps a form key to the AgentDraft struct field name
func structFieldName(key string) string {
	switch key {
	case model.FieldIP:
		return "IP"
	case model.FieldType:
		return "Type"
	case model.FieldName:
		return "Name"
	case model.FieldImage:
		return "Image"
	case model.FieldCapacity:
		return "Capacity"
	case model.FieldNodeCapacity:
		return "NodeCapacity"
	case model.FieldLogLevel:
		return "LogLevel"
	case model.FieldSchedulable:
		return "Schedulable"
	case model.FieldConfigFile:
		return "ConfigFile"
	}
	return key
}
