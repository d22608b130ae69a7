package cache

// Option configures a Memo.
type Option func(m *Memo, sizeBytes *int)

// WithSizeBytes sets the cache capacity.
func WithSizeBytes(n int) Option {
	return func(_ *Memo, size *int) {
		if n > 0 {
			*size = n
		}
	}
}

// WithTTL expires entries after seconds. Zero keeps them until evicted.
func WithTTL(seconds int) Option {
	return func(m *Memo, _ *int) {
		if seconds >= 0 {
			m.ttlSeconds = seconds
		}
	}
}
