package domain

import "errors"

// ErrReportNotFound is returned when a report ID cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// ErrFileNotFound is returned when an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrNoStore is returned when persistence is requested without a configured store.
var ErrNoStore = errors.New("no report store configured")
