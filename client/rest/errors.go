package rest

import "fmt"

// Error represents non 2xx engine response
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unmeshed api error (status %d): %s", e.StatusCode, e.Body)
}
