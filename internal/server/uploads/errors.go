package uploads

import (
	"fmt"

	"github.com/dmitrijs2005/gcstorage/internal/common"
)

// Error is a rejection with a message meant for the client. Kind is one of
// the common sentinel errors and is what errors.Is matches.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%v: %s", e.Kind, e.Message) }

func (e *Error) Unwrap() error { return e.Kind }

func validation(msg string) error { return &Error{Kind: common.ErrorValidation, Message: msg} }
func notFound(msg string) error   { return &Error{Kind: common.ErrorNotFound, Message: msg} }
func conflict(msg string) error   { return &Error{Kind: common.ErrorConflict, Message: msg} }
