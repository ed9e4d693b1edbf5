// Package notify fans backup results out to chat and mail channels.
package notify

import "context"

type Notifier interface {
	Success(ctx context.Context, msg string) error
	Error(ctx context.Context, errMsg string) error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Success(context.Context, string) error { return nil }
func (Nop) Error(context.Context, string) error   { return nil }
