package query

import (
	"errors"
	"fmt"
)

var errNoClient = errors.New("no weather client configured")

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return fmt.Sprintf("lookup panicked: %v", p.value)
}
