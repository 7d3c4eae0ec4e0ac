package dataserver

import "fmt"

// The termination reasons a Server reports on crash, implementing
// manager.Reason (error plus a Reason() string the manager copies
// verbatim into CountryStatus.Substatus).

// RetryLimitExceeded is reported when the upstream download fails
// RetryLimit times in a row.
type RetryLimitExceeded struct {
	Code string
	Err  error
}

func (e *RetryLimitExceeded) Error() string {
	return fmt.Sprintf("%s: retry limit exceeded: %v", e.Code, e.Err)
}
func (e *RetryLimitExceeded) Reason() string { return "retry_limit_exceeded" }

// CountryZipFileError is reported when the upstream ZIP can't be
// opened or its single text member can't be extracted (stage 4).
type CountryZipFileError struct {
	Path string
	Err  error
}

func (e *CountryZipFileError) Error() string {
	return fmt.Sprintf("zip file %s: %v", e.Path, e.Err)
}
func (e *CountryZipFileError) Reason() string { return "country_zip_file_error" }

// CountryFileError is reported when the raw record scan fails on
// malformed input.
type CountryFileError struct {
	Err error
}

func (e *CountryFileError) Error() string  { return fmt.Sprintf("country file: %v", e.Err) }
func (e *CountryFileError) Reason() string { return "country_file_error" }

// FCPCountryFileError is reported when a previously cached FCP file is
// found but cannot be read back (stage 6's "read it back instead"
// path).
type FCPCountryFileError struct {
	Err error
}

func (e *FCPCountryFileError) Error() string  { return fmt.Sprintf("FCP cache file: %v", e.Err) }
func (e *FCPCountryFileError) Reason() string { return "fcp_country_file_error" }

// genericError wraps any other failure. Its Reason() returns the
// wrapped error's own message, since there is no fixed tag for it.
type genericError struct {
	err error
}

func (e *genericError) Error() string  { return e.err.Error() }
func (e *genericError) Reason() string { return e.err.Error() }
