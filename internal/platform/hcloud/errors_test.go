package hcloud

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
)

func apiErr(code hcloud.ErrorCode) error {
	return hcloud.Error{Code: code, Message: string(code)}
}

func TestIsResourceLocked(t *testing.T) {
	t.Parallel()

	assert.True(t, isResourceLocked(apiErr(hcloud.ErrorCodeLocked)))
	assert.True(t, isResourceLocked(apiErr(hcloud.ErrorCodeConflict)))
	assert.False(t, isResourceLocked(apiErr(hcloud.ErrorCodeNotFound)))
	assert.False(t, isResourceLocked(errors.New("plain error")))
	assert.False(t, isResourceLocked(nil))
}

func TestIsInvalidParameter(t *testing.T) {
	t.Parallel()

	assert.True(t, isInvalidParameter(apiErr(hcloud.ErrorCodeInvalidInput)))
	assert.True(t, isInvalidParameter(apiErr(hcloud.ErrorCodeNotFound)))
	assert.False(t, isInvalidParameter(apiErr(hcloud.ErrorCodeLocked)))
}

func TestIsNotFound_Wrapped(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("outer: %w", apiErr(hcloud.ErrorCodeNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(fmt.Errorf("outer: %w", errors.New("inner"))))
}

func TestIsRateLimited(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRateLimited(apiErr(hcloud.ErrorCodeRateLimitExceeded)))
	assert.False(t, IsRateLimited(apiErr(hcloud.ErrorCodeConflict)))
}
