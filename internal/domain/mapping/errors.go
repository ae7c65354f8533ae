package mapping

import "errors"

var (
	ErrMappingNotFound   = errors.New("saved mapping not found")
	ErrMappingNameExists = errors.New("a mapping with this name already exists")
)
