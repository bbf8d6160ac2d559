package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/debforge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrNoAssets, "no assets resolved")
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrNoAssets, err.Code)
	assert.Equal(t, "[NO_ASSETS] no assets resolved", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("wraps_underlying_error", func(t *testing.T) {
		inner := fmt.Errorf("permission denied")
		err := errors.Wrap(inner, errors.ErrFileRead, "unable to read README")
		require.NotNil(t, err)
		assert.Equal(t, "[FILE_READ] unable to read README: permission denied", err.Error())
		assert.Equal(t, inner, stderrors.Unwrap(err))
	})

	t.Run("nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "should vanish"))
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrNumParse, "unable to parse chmod argument %q", "75a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNumParse))
	assert.False(t, errors.IsErrorCode(err, errors.ErrNoAssets))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrNumParse))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.ErrAssetRule,
		errors.GetErrorCode(errors.New(errors.ErrAssetRule, "missing path for asset")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFileRead, "read failed").WithDetail("path", "/tmp/LICENSE")
	assert.Equal(t, "/tmp/LICENSE", err.Details["path"])
}
