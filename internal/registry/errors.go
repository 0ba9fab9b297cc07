package registry

import "errors"

// ErrNotFound is returned when renaming or removing an identifier that is not
// registered.
var ErrNotFound = errors.New("tag not registered")

// ErrValidation is returned when an identifier or display name is empty.
var ErrValidation = errors.New("validation error")

// ErrStorageFormat is returned when the registry file exists but does not hold
// a JSON object of identifier to name.
var ErrStorageFormat = errors.New("registry file is not a valid tag mapping")

// ErrStorageWrite is returned when the registry file cannot be written.
var ErrStorageWrite = errors.New("registry file write failed")
