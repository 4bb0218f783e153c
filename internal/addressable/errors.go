package addressable

import "errors"

var (
	ErrInvalidSyntax         = errors.New("invalid addressable syntax")
	ErrObjectNotFound        = errors.New("object not found")
	ErrAddressableNotFound   = errors.New("addressable not found")
	ErrUsagePermissionDenied = errors.New("usage not permitted")
	ErrInvalidIndex          = errors.New("invalid index")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrDuplicateObject       = errors.New("duplicate object")
	ErrValueCountMismatch    = errors.New("value count mismatch")
	ErrConflictingUsage      = errors.New("conflicting usage")
)
