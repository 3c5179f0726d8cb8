package logger

import (
	"strconv"
	"strings"
)

// Status is the error type returned throughout the module.
// The Status code follows http status code conventions.
type Status struct {
	Status  int
	Message string
	Err     error
	Trace   string
	Request string
}

func (s *Status) Error() string {
	var result []string
	result = append(result, strconv.Itoa(s.Status))
	result = append(result, s.Message)
	if s.Err != nil {
		result = append(result, s.Err.Error())
	}
	return strings.Join(result, ` `)
}

func (s *Status) String() string {
	return s.Error()
}
