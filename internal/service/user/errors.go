package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrClinicNotActive  = errors.New("clinic is not active")
	ErrUnknownRole      = errors.New("unknown user role")
	ErrCapacityExceeded = errors.New("clinic capacity exceeded for this role")
)
