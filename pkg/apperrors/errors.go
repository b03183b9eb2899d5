package apperrors

import "errors"

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrServiceExists        = errors.New("service already registered")
	ErrTableNotFound        = errors.New("table not found")
	ErrAdapterNotRegistered = errors.New("datasource type not registered")
)
