package model

import (
	"errors"
)

var (
	ErrInvalidPath   = errors.New(`invalid path`)
	ErrInvalidFormat = errors.New(`invalid format`)
	ErrAlreadyExists = errors.New(`already exists`)
	ErrNotFound      = errors.New(`not found`)
	ErrInvalidInput  = errors.New(`invalid input`)
)
