package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrEmptyText         = errors.New("task text cannot be empty")
	ErrInvalidDate       = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidMonth      = errors.New("invalid month (want YYYY-MM)")
	ErrInvalidTime       = errors.New("invalid time (want HH:MM)")
	ErrInvalidFilter     = errors.New("invalid filter (want active, completed or all)")
	ErrCorruptStore      = errors.New("task store is corrupt")
	ErrUnknownBackend    = errors.New("unknown storage backend (want json or sqlite)")
	ErrConfigExists      = errors.New("config file already exists")
	ErrNoAPIKey          = errors.New("narration API key not set")
	ErrEmptyFile         = errors.New("file is empty")
	ErrNoTasksInFile     = errors.New("no tasks found in file")
	ErrSameBackend       = errors.New("source and destination backends are the same")
	ErrMigrationConflict = errors.New("task differs between stores")
	ErrNoLogFile         = errors.New("no log file yet")
)
