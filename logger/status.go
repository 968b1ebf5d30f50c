package logger

import (
	"strconv"
	"strings"
)

// Status is the error type returned by every fallible operation in this
// module. A nil *Status means success.
type Status struct {
	Code    int
	Message string
	Err     error
	Trace   string
	Request string
}

func (s *Status) Error() string {
	return s.String()
}

func (s *Status) String() string {
	if s == nil {
		return ``
	}
	var parts []string
	parts = append(parts, strconv.Itoa(s.Code))
	parts = append(parts, s.Message)
	if s.Err != nil {
		parts = append(parts, s.Err.Error())
	}
	return strings.Join(parts, ` `)
}
