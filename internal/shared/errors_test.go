package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpager/internal/shared"
	"sqlpager/pkg/dialect"
	"sqlpager/pkg/provider"
)

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return false }

type nonTimeoutNetError struct{}

func (e *nonTimeoutNetError) Error() string   { return "connection reset" }
func (e *nonTimeoutNetError) Timeout() bool   { return false }
func (e *nonTimeoutNetError) Temporary() bool { return true }

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		expected string
	}{
		{"simple error", errors.New("original"), "wrapper", "wrapper: original"},
		{"empty context", errors.New("original"), "", "original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.Wrap(tt.err, tt.context)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, result.Error())
			assert.ErrorIs(t, result, tt.err)
		})
	}

	assert.Nil(t, shared.Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	original := errors.New("original")

	err := shared.Wrapf(original, "query %q page %d", "orders", 3)
	assert.Equal(t, `query "orders" page 3: original`, err.Error())
	assert.ErrorIs(t, err, original)

	assert.Nil(t, shared.Wrapf(nil, "context %d", 1))
}

func TestKindString(t *testing.T) {
	tests := map[shared.Kind]string{
		shared.KindUnknown:           "Unknown",
		shared.KindNotFound:          "NotFound",
		shared.KindValidation:        "Validation",
		shared.KindUnsupported:       "Unsupported",
		shared.KindTimeout:           "Timeout",
		shared.KindDependencyFailure: "DependencyFailure",
		shared.KindInternal:          "Internal",
		shared.KindCanceled:          "Canceled",
		shared.Kind(999):             "Unknown",
	}

	for kind, expected := range tests {
		assert.Equal(t, expected, kind.String())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected shared.Kind
	}{
		{"nil", nil, shared.KindUnknown},
		{"plain error", errors.New("boom"), shared.KindUnknown},
		{"canceled", context.Canceled, shared.KindCanceled},
		{"deadline", context.DeadlineExceeded, shared.KindTimeout},
		{"net timeout", &timeoutError{}, shared.KindTimeout},
		{"net non-timeout", &nonTimeoutNetError{}, shared.KindUnknown},
		{"timeout sentinel", shared.ErrTimeout, shared.KindTimeout},
		{"not found", shared.ErrNotFound, shared.KindNotFound},
		{"unknown provider", fmt.Errorf("%w: %q", provider.ErrUnknownProvider, "db2"), shared.KindNotFound},
		{"validation", shared.ErrValidation, shared.KindValidation},
		{"invalid page", fmt.Errorf("%w: page size 0", dialect.ErrInvalidPage), shared.KindValidation},
		{"unsupported", shared.ErrUnsupported, shared.KindUnsupported},
		{"unsupported pagination", fmt.Errorf("%w: strategy None", dialect.ErrUnsupportedPagination), shared.KindUnsupported},
		{"dependency", shared.ErrDependencyFailure, shared.KindDependencyFailure},
		{"schema unavailable", provider.ErrSchemaUnavailable, shared.KindDependencyFailure},
		{"internal", shared.ErrInternal, shared.KindInternal},
		{"wrapped twice", shared.Wrap(shared.Wrap(dialect.ErrInvalidPage, "a"), "b"), shared.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.KindOf(tt.err))
		})
	}
}

func TestKindOf_JoinPriority(t *testing.T) {
	tests := []struct {
		name     string
		errs     []error
		expected shared.Kind
	}{
		{"canceled beats everything", []error{shared.ErrInternal, context.Canceled, shared.ErrNotFound}, shared.KindCanceled},
		{"timeout beats not found", []error{shared.ErrNotFound, context.DeadlineExceeded}, shared.KindTimeout},
		{"not found beats unsupported", []error{dialect.ErrUnsupportedPagination, provider.ErrUnknownProvider}, shared.KindNotFound},
		{"validation beats dependency", []error{provider.ErrSchemaUnavailable, dialect.ErrInvalidPage}, shared.KindValidation},
		{"dependency beats internal", []error{shared.ErrInternal, shared.ErrDependencyFailure}, shared.KindDependencyFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Join(tt.errs...)
			// Порядок в errors.Join не влияет на результат
			for range 5 {
				assert.Equal(t, tt.expected, shared.KindOf(err))
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, shared.IsNotFound(provider.ErrUnknownProvider))
	assert.True(t, shared.IsValidation(dialect.ErrInvalidPage))
	assert.True(t, shared.IsUnsupported(dialect.ErrUnsupportedPagination))
	assert.True(t, shared.IsDependencyFailure(provider.ErrSchemaUnavailable))
	assert.True(t, shared.IsCanceled(fmt.Errorf("query: %w", context.Canceled)))
	assert.True(t, shared.IsTimeout(fmt.Errorf("query: %w", &timeoutError{})))
	assert.True(t, shared.HasKind(shared.ErrInternal, shared.KindInternal))

	assert.False(t, shared.IsNotFound(nil))
	assert.False(t, shared.IsCanceled(nil))
	assert.False(t, shared.IsTimeout(nil))
	assert.False(t, shared.IsUnsupported(errors.New("other")))
}

func TestSentinelOf(t *testing.T) {
	assert.Equal(t, shared.ErrNotFound, shared.SentinelOf(shared.KindNotFound))
	assert.Equal(t, shared.ErrUnsupported, shared.SentinelOf(shared.KindUnsupported))
	assert.Nil(t, shared.SentinelOf(shared.KindUnknown))
	assert.Nil(t, shared.SentinelOf(shared.KindCanceled))
}

func TestMarkKind(t *testing.T) {
	driverErr := errors.New("ORA-00942: table or view does not exist")

	marked := shared.MarkKind(driverErr, shared.KindDependencyFailure)
	assert.Equal(t, shared.KindDependencyFailure, shared.KindOf(marked))
	assert.ErrorIs(t, marked, driverErr)
	assert.Equal(t, "dependency failure: ORA-00942: table or view does not exist", marked.Error())

	// Идемпотентность
	assert.Same(t, marked, shared.MarkKind(marked, shared.KindDependencyFailure))
	already := fmt.Errorf("%w: x", dialect.ErrInvalidPage)
	assert.Same(t, already, shared.MarkKind(already, shared.KindValidation))

	// Виды без sentinel не меняют ошибку
	assert.Same(t, driverErr, shared.MarkKind(driverErr, shared.KindUnknown))
	assert.Same(t, driverErr, shared.MarkKind(driverErr, shared.KindCanceled))

	assert.Equal(t, shared.ErrTimeout, shared.MarkKind(nil, shared.KindTimeout))
	assert.Nil(t, shared.MarkKind(nil, shared.KindCanceled))
}
