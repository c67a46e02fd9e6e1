package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestErrorMatchesKindSentinel(t *testing.T) {
	err := New(KindContentDecode, "fetch body", errors.New("illegal base64 data"))
	wrapped := fmt.Errorf("listed: %w", err)

	be.True(t, errors.Is(wrapped, ErrContentDecode))
	be.True(t, !errors.Is(wrapped, ErrSend))
	be.Equal(t, KindOf(wrapped), KindContentDecode)
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(KindAuth, "refresh token", "status %d", 400)
	be.Equal(t, err.Error(), "auth error: refresh token: status 400")
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(KindMailAPI, "list messages", cause)
	be.True(t, errors.Is(err, cause))
}

func TestKindOfPlainError(t *testing.T) {
	be.Equal(t, KindOf(errors.New("plain")), Kind(""))
}
