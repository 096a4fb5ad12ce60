package filter

import "github.com/gear6io/hivebridge/pkg/errors"

// Filter error codes
var (
	FilterInvalid = errors.MustNewCode("filter.invalid_filter")
)
