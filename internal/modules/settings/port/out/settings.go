package out

import "context"

// Store is a string key/value store. Get returns apperrors.ErrNotFound for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
