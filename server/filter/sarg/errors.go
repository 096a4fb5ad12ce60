package sarg

import "github.com/gear6io/hivebridge/pkg/errors"

// Search argument error codes
var (
	SargUnbalanced  = errors.MustNewCode("sarg.unbalanced")
	SargEmptyGroup  = errors.MustNewCode("sarg.empty_group")
	SargInvalidLeaf = errors.MustNewCode("sarg.invalid_leaf")
)
