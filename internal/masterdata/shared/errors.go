package shared

import "github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"

var (
	ErrNotFound   = httpx.ErrNotFound
	ErrValidation = httpx.ErrValidation
)

// Field messages shared by the master data validators.
const (
	MsgRequired     = "This field is required."
	MsgBlank        = "This field may not be blank."
	MsgNull         = "This field may not be null."
	MsgInvalidEmail = "Enter a valid email address."
)
