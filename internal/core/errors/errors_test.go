package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "type not found")
		if err.Error() != "[NOT_FOUND] type not found" {
			t.Errorf("expected [NOT_FOUND] type not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected token")
		err := Wrap(original, CodeParseError, "parse Shape.java")
		expected := "[PARSE_ERROR] parse Shape.java: unexpected token"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("WrapNil", func(t *testing.T) {
		if err := Wrap(nil, CodeInternal, "noop"); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := New(CodeConflict, "duplicate type")
		err = AddContext(err, CtxType, "Shape")
		err = AddContext(err, CtxPath, "a/Shape.java")
		expected := "[CONFLICT] duplicate type {path=a/Shape.java type=Shape}"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("AddContextPromotesPlainErrors", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxOperation, "persist")
		if !IsCode(err, CodeInternal) {
			t.Fatalf("expected INTERNAL_ERROR, got %v", err)
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		inner := New(CodeValidationError, "bad order")
		err := fmt.Errorf("load config: %w", inner)
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
		code, ok := CodeOf(err)
		if !ok || code != CodeValidationError {
			t.Errorf("expected CodeOf VALIDATION_ERROR, got %q %v", code, ok)
		}
	})
}
