package fragment

import "github.com/gear6io/hivebridge/pkg/errors"

// Fragment-specific error codes
var (
	FragmentMalformedMetadata = errors.MustNewCode("fragment.malformed_metadata")
	FragmentInvalidMetadata   = errors.MustNewCode("fragment.invalid_metadata")
	FragmentListFailed        = errors.MustNewCode("fragment.list_failed")
	FragmentInvalidDelimiter  = errors.MustNewCode("fragment.invalid_delimiter")
)

func malformed(format string, args ...interface{}) *errors.Error {
	return errors.Newf(FragmentMalformedMetadata, format, args...)
}
