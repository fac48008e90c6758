package feeds

import "fmt"

// FeedError means a feed could not be fetched or parsed. It aborts the render pass.
type FeedError struct {
	Feed string
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Feed, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
