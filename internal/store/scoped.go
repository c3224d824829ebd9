package store

import "context"

type scopedStore struct {
	inner  ProgressStore
	prefix string
}

// Scoped returns a ProgressStore whose paths are resolved under prefix.
// Change notifications report paths relative to prefix.
func Scoped(ps ProgressStore, prefix string) ProgressStore {
	return &scopedStore{inner: ps, prefix: Join(prefix)}
}

// UserScope returns the store rooted at users/{uid}.
func UserScope(ps ProgressStore, uid string) ProgressStore {
	return Scoped(ps, Join("users", uid))
}

func (s *scopedStore) abs(path string) string {
	return Join(s.prefix, path)
}

func (s *scopedStore) Get(ctx context.Context, path string) (any, bool, error) {
	return s.inner.Get(ctx, s.abs(path))
}

func (s *scopedStore) Set(ctx context.Context, path string, value any) error {
	return s.inner.Set(ctx, s.abs(path), value)
}

func (s *scopedStore) Update(ctx context.Context, path string, fields map[string]any) error {
	return s.inner.Update(ctx, s.abs(path), fields)
}

func (s *scopedStore) Increment(ctx context.Context, path string, delta int64, opKey string) (int64, error) {
	return s.inner.Increment(ctx, s.abs(path), delta, opKey)
}

func (s *scopedStore) OnChange(path string, fn func(changed string)) (cancel func()) {
	return s.inner.OnChange(s.abs(path), func(changed string) {
		if !within(changed, s.prefix) {
			// A write above the scope replaced all of it.
			changed = s.prefix
		}
		fn(relative(changed, s.prefix))
	})
}
