package companies

import "errors"

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyInUse    = errors.New("company is referenced by employees or orders")
	ErrInvalidInput    = errors.New("invalid company")
)
