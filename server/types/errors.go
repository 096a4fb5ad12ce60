package types

import "github.com/gear6io/hivebridge/pkg/errors"

// Type mapping error codes
var (
	TypesUnsupported  = errors.MustNewCode("types.unsupported_type")
	TypesIncompatible = errors.MustNewCode("types.incompatible_type")
)
