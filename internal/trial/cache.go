package trial

// #region cache
// Cache memoizes generated trials by task index. An index is generated once
// and served unchanged afterwards, so re-rendering an unanswered task shows
// the same data. Not safe for concurrent use; callers hold the session lock.
type Cache struct {
	trials map[int]*Trial
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{trials: make(map[int]*Trial)}
}

// GetOrGenerate returns the cached trial for index, calling gen on first access.
func (c *Cache) GetOrGenerate(index int, gen func() (*Trial, error)) (*Trial, error) {
	if t, ok := c.trials[index]; ok {
		return t, nil
	}
	t, err := gen()
	if err != nil {
		return nil, err
	}
	c.trials[index] = t
	return t, nil
}

// Get returns the cached trial for index, if any.
func (c *Cache) Get(index int) (*Trial, bool) {
	t, ok := c.trials[index]
	return t, ok
}

// Len reports how many indices have been generated.
func (c *Cache) Len() int {
	return len(c.trials)
}

// #endregion cache
