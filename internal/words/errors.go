package words

import "errors"

var (
	ErrWordNotFound     = errors.New("word not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("forbidden")
)
