package meals

import "errors"

var (
	ErrMealNotFound     = errors.New("meal not found")
	ErrMealInUse        = errors.New("meal is referenced by orders")
	ErrNotOwner         = errors.New("meal belongs to another cook")
	ErrInvalidInput     = errors.New("invalid meal")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
