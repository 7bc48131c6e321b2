package models

import "errors"

// ErrValidation is the root of all input validation failures across
// services. Callers wrap it with detail, e.g.
// fmt.Errorf("%w: provider is required", models.ErrValidation), so
// errors.Is(err, models.ErrValidation) selects the whole family.
var ErrValidation = errors.New("validation failed")
