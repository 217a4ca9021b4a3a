// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/GeneHighlighter/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"input", errors.ErrCodeInput, "column Abstract not found"},
		{"offset mismatch", errors.ErrCodeOffsetMismatch, "span [3,8) mismatch"},
		{"timeout", errors.ErrCodeRecognitionTimeout, "recognizer deadline exceeded"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	require.NotNil(t, ae)
	assert.Contains(t, ae.Stack, "errors_test.go")
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeRecognition, "recognizer call failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeRecognition, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrap_UnknownCodeInheritsInnerCode(t *testing.T) {
	t.Parallel()

	inner := errors.Input("sheet not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "loading workbook")

	assert.Equal(t, errors.ErrCodeInput, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError formatting
// ─────────────────────────────────────────────────────────────────────────────

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.Input("column not found").WithDetail("column=Abstract")
	assert.Equal(t, "[HL_001] column not found: column=Abstract", ae.Error())

	bare := errors.New(errors.ErrCodeCellBounds, "span outside cell")
	assert.Equal(t, "[HL_006] span outside cell", bare.Error())
}

func TestUnknownLabel_NamesLabel(t *testing.T) {
	t.Parallel()

	ae := errors.UnknownLabel("SPECIES")
	assert.Equal(t, errors.ErrCodeUnknownLabel, ae.Code)
	assert.True(t, strings.HasSuffix(ae.Error(), "label=SPECIES"))
}

// ─────────────────────────────────────────────────────────────────────────────
// WithDetail / WithCause
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := errors.Input("missing")
	detailed := base.WithDetail("path=a.xlsx")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "path=a.xlsx", detailed.Detail)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

func TestWithCause_Unwraps(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("eof")
	ae := errors.Internal("read").WithCause(cause)
	assert.Equal(t, cause, stderrors.Unwrap(ae))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrap(t *testing.T) {
	t.Parallel()

	ae := errors.OffsetMismatch("mismatch")
	wrapped := fmt.Errorf("cell A2: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeOffsetMismatch))
	assert.False(t, errors.IsCode(wrapped, errors.ErrCodeInput))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInput))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInput, errors.GetCode(fmt.Errorf("x: %w", errors.Input("y"))))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want errors.Kind
	}{
		{errors.Input("x"), errors.KindInput},
		{errors.New(errors.ErrCodeRecognition, "x"), errors.KindRecognition},
		{errors.New(errors.ErrCodeRecognitionTimeout, "x"), errors.KindRecognition},
		{errors.OffsetMismatch("x"), errors.KindOffsetMismatch},
		{errors.UnknownLabel("X"), errors.KindUnknownLabel},
		{errors.New(errors.ErrCodeCellBounds, "x"), errors.KindCellBounds},
		{stderrors.New("x"), errors.KindOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, errors.KindOf(tc.err), tc.err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsFatal(errors.Input("no such file")))
	assert.False(t, errors.IsFatal(errors.UnknownLabel("X")))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrCodeRecognition, "x")))
}

//Personal.AI order the ending
