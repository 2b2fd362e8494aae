// Package panicerr converts panics in background handlers into errors.
package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// SafeContext wraps fn so that a panic inside it is returned as an error
// carrying the recovered value and stack.
func SafeContext[T any](fn func(context.Context, T) error) func(context.Context, T) error {
	return func(ctx context.Context, v T) error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn(ctx, v)
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}
