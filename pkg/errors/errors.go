// Package errors provides coded, structured errors built on samber/oops.
//
// Codes follow the <domain>.<operation>.<reason> convention so callers can
// branch on the trailing reason (invalid_value, missing, failure, ...)
// without string matching on messages.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeConfigCredentialMissing    Code = "config.credential.missing"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"
	CodeConfigLoadReadFailure      Code = "config.load.read.failure"

	CodeEmbeddingCreateFailure Code = "embedding.create.failure"

	CodeStoreQueryFailure   Code = "store.query.failure"
	CodeStoreResultInvalid  Code = "store.result.invalid"
	CodeStoreIndexNotFound  Code = "store.index.not_found"
	CodeStoreIngestAborted  Code = "store.ingest.aborted"
	CodeStoreInvalidInput   Code = "store.invalid_input"
	CodeStoreConnectFailure Code = "store.connect.failure"

	CodeCLIInputInvalid    Code = "cli.input.invalid"
	CodeCLISetupFailure    Code = "cli.setup.failure"
	CodeServerStartFailure Code = "server.start.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldLabel(value string) Attr {
	return Field("label", value)
}

func FieldIndex(value string) Attr {
	return Field("index", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

func FieldElementID(value string) Attr {
	return Field("element_id", value)
}

// codedError pins code to one layer of the chain. oops reports the code of
// the innermost layer, so the layer's own code is kept here and CodeOf
// returns the outermost one.
type codedError struct {
	code Code
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func coded(code Code, err error) error {
	return &codedError{code: code, err: err}
}

func New(code Code, msg string, fields ...Attr) error {
	return coded(code, oops.Code(code).With(flatten(fields)...).New(msg))
}

func Errorf(code Code, format string, args ...any) error {
	return coded(code, oops.Code(code).Errorf(format, args...))
}

// Wrap annotates err with msg and re-codes it: CodeOf reports code even when
// err already carries one.
func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return coded(code, oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg))
}

// With adds structured fields to an existing error chain, keeping its code.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		return oops.With(flatten(fields)...).Wrap(err)
	}

	return coded(code, oops.Code(code).With(flatten(fields)...).Wrap(err))
}

// CodeOf returns the outermost code in err's chain. Errors built by oops
// outside this package fall back to the oops code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var ce *codedError
	if stderrors.As(err, &ce) {
		return ce.code
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	if oopsErr.Code() == nil {
		return ""
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "missing"
}

// IsConfiguration reports whether err is a pre-flight configuration problem.
func IsConfiguration(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "config.")
}

// IsEmbeddingCreation reports whether err came from the embedding provider.
func IsEmbeddingCreation(err error) bool {
	return HasCode(err, CodeEmbeddingCreateFailure)
}

// IsIndexMissing reports whether err signals an absent similarity index.
func IsIndexMissing(err error) bool {
	return HasCode(err, CodeStoreIndexNotFound)
}

// StackTrace returns the oops stack trace of err, or "" for foreign errors.
func StackTrace(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	return oopsErr.Stacktrace()
}

func Join(errs ...error) error {
	joined := stderrors.Join(errs...)
	if joined == nil {
		return nil
	}
	return coded(CodeConfigValidateInvalidValue, oops.Code(CodeConfigValidateInvalidValue).Wrap(joined))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
