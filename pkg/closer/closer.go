// Package closer collects release steps and runs them in reverse order.
package closer

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// Stack holds release steps. Closing runs them last in, first out and empties
// the stack, so a second Close is a no-op.
type Stack struct {
	closers []func() error
}

func (c *Stack) AddWithError(closer func() error) {
	c.closers = append(c.closers, closer)
}

func (c *Stack) AddCloser(closer io.Closer) {
	if closer != nil {
		c.closers = append(c.closers, closer.Close)
	}
}

func (c *Stack) AddWithoutError(closer func()) {
	c.closers = append(c.closers, func() error {
		closer()
		return nil
	})
}

// Len returns the number of pending release steps.
func (c *Stack) Len() int {
	return len(c.closers)
}

// Close runs every pending step, even if earlier ones fail, and returns the
// combined errors.
func (c *Stack) Close() error {
	closers := c.closers
	c.closers = nil

	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		if closerErr := closers[i](); closerErr != nil {
			err = multierror.Append(err, closerErr)
		}
	}
	return err
}
