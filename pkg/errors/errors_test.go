package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrUnknownCategory, `unknown resource category "Unknown"`)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, http.StatusBadRequest, FromError(err).Status)
}

func TestPreserveKeepsTypedErrors(t *testing.T) {
	connErr := Wrap(fmt.Errorf("dial tcp: refused"), ErrConnectivity.Code, ErrConnectivity.Status, ErrConnectivity.Message)
	wrapped := fmt.Errorf("list schools: %w", connErr)

	got := Preserve(wrapped, "failed to list schools")
	assert.Equal(t, "CONNECTIVITY_ERROR", FromError(got).Code)

	plain := Preserve(fmt.Errorf("boom"), "failed to list schools")
	assert.Equal(t, "INTERNAL_ERROR", FromError(plain).Code)
	assert.Equal(t, "failed to list schools", FromError(plain).Message)
	assert.Nil(t, Preserve(nil, "unused"))
}
