package repository

import "errors"

// ErrVersionConflict is returned when a versioned update finds the row changed
// since it was read.
var ErrVersionConflict = errors.New("record was modified concurrently")

// ErrDuplicateSubmission is returned when a student submits the same assignment twice.
var ErrDuplicateSubmission = errors.New("submission already exists")
