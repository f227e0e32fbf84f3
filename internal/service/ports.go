package service

import (
	"context"

	"github.com/retailnet/retail_api/pkg/feed"
)

// KeyStore issues and consumes single-use confirmation keys. One primitive
// backs account activation, password reset and order confirmation.
type KeyStore interface {
	Issue(ctx context.Context, email string) (string, error)
	ValidateAndConsume(ctx context.Context, key, email string) (bool, error)
}

// Notifier delivers out-of-band messages. Delivery is best-effort: callers
// log failures but never surface them.
type Notifier interface {
	Send(to, subject, body string) error
}

// FeedFetcher retrieves and parses a supplier catalog document.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Feed, error)
}
