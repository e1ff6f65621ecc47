package store

import "fmt"

// Code classifies snapshot loading failures.
type Code int

const (
	CodeSourceNotDefined   Code = 1
	CodeSourceNotReadable  Code = 2
	CodeParsingError       Code = 3
	CodeMissingDataSection Code = 4
	CodeUnknownDistrictID  Code = 5
	CodeReadingError       Code = 6
)

func (c Code) String() string {
	switch c {
	case CodeSourceNotDefined:
		return "ERROR_SOURCE_FILE_NOT_DEFINED"
	case CodeSourceNotReadable:
		return "ERROR_SOURCE_FILE_NOT_READABLE"
	case CodeParsingError:
		return "ERROR_SOURCE_FILE_PARSING_ERROR"
	case CodeMissingDataSection:
		return "ERROR_SOURCE_FILE_HAVE_NO_DATA"
	case CodeUnknownDistrictID:
		return "ERROR_NO_SUCH_DISTRICT_ID"
	case CodeReadingError:
		return "ERROR_SOURCE_FILE_READING_ERROR"
	default:
		return fmt.Sprintf("ERROR_%d", int(c))
	}
}

// LoadError is returned by the snapshot readers.
type LoadError struct {
	Code    Code
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches any *LoadError with the same code, so the sentinels below work with errors.Is.
func (e *LoadError) Is(target error) bool {
	t, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrSourceNotDefined   = &LoadError{Code: CodeSourceNotDefined, Message: "weather file not defined"}
	ErrSourceNotReadable  = &LoadError{Code: CodeSourceNotReadable, Message: "weather file not readable"}
	ErrParsingError       = &LoadError{Code: CodeParsingError, Message: "weather data can't be parsed"}
	ErrMissingDataSection = &LoadError{Code: CodeMissingDataSection, Message: "weather file does not contain DATA section"}
	ErrUnknownDistrictID  = &LoadError{Code: CodeUnknownDistrictID, Message: "unknown district id"}
	ErrReadingError       = &LoadError{Code: CodeReadingError, Message: "error reading weather file"}
)
