package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuth          Kind = "auth"
	KindContentDecode Kind = "content decode"
	KindSummarization Kind = "summarization"
	KindSend          Kind = "send"
	KindMailAPI       Kind = "mail api"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrAuth          = &Error{Kind: KindAuth}
	ErrContentDecode = &Error{Kind: KindContentDecode}
	ErrSummarization = &Error{Kind: KindSummarization}
	ErrSend          = &Error{Kind: KindSend}
	ErrMailAPI       = &Error{Kind: KindMailAPI}
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := string(e.Kind) + " error"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
