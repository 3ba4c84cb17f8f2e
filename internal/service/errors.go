package service

import "errors"

var (
	// ErrUploadFailed marks an object-store write failure for the mandatory
	// video asset. Fatal to the enclosing operation; earlier storage
	// artifacts are left for out-of-band cleanup.
	ErrUploadFailed = errors.New("video upload failed")

	// ErrValidation marks bad input caught before any I/O. Never retried.
	ErrValidation = errors.New("validation failed")
)
