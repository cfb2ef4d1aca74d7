package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// #region catalog
// Catalog is the read-only set of icon files found in one directory,
// partitioned into style buckets at load time.
type Catalog struct {
	dir     string
	opts    Options
	files   []string
	buckets map[Style][]string
	icons   *lru.Cache
}

// #endregion catalog

// #region classify
// Classify maps a filename to its style bucket. Tests are case-sensitive
// substring matches; ok is false when the name fits no bucket.
func Classify(name string, strict bool) (Style, bool) {
	switch {
	case strings.Contains(name, "unfilled"):
		if strict && strings.Contains(name, "dash") {
			return StyleOpen, true
		}
		return StyleUnfilled, true
	case strings.Contains(name, "filled"):
		return StyleFilled, true
	case strings.Contains(name, "dash"), strings.Contains(name, "open"):
		return StyleOpen, true
	}
	return "", false
}

// #endregion classify

// #region load
// Load scans dir and classifies every file whose extension matches opts.
func Load(dir string, opts Options) (*Catalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read asset dir %s: %w", dir, err)
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(de.Name()))] {
			files = append(files, de.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrCatalogEmpty)
	}
	sort.Strings(files)

	size := opts.IconCache
	if size <= 0 {
		size = DefaultOptions().IconCache
	}
	icons, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("icon cache: %w", err)
	}

	c := &Catalog{
		dir:     dir,
		opts:    opts,
		files:   files,
		buckets: make(map[Style][]string, len(Styles)),
		icons:   icons,
	}
	for _, f := range files {
		if style, ok := Classify(f, opts.Strict); ok {
			c.buckets[style] = append(c.buckets[style], f)
		}
	}
	return c, nil
}

// #endregion load

// #region accessors
// Files returns every matched filename, sorted.
func (c *Catalog) Files() []string {
	return append([]string(nil), c.files...)
}

// Bucket returns the filenames classified under style, sorted.
func (c *Catalog) Bucket(style Style) []string {
	return append([]string(nil), c.buckets[style]...)
}

// Entries returns the classified files across all buckets.
func (c *Catalog) Entries() []Entry {
	var out []Entry
	for _, s := range Styles {
		for _, f := range c.buckets[s] {
			out = append(out, Entry{Filename: f, Style: s})
		}
	}
	return out
}

// MinPerBucket is the configured floor for any bucket a trial samples from.
func (c *Catalog) MinPerBucket() int {
	return c.opts.MinPerBucket
}

// Path joins filename onto the catalog directory.
func (c *Catalog) Path(filename string) string {
	return filepath.Join(c.dir, filename)
}

// #endregion accessors

// #region require
// Require checks that style holds at least need icons and at least the
// configured per-bucket minimum.
func (c *Catalog) Require(style Style, need int) error {
	if need < c.opts.MinPerBucket {
		need = c.opts.MinPerBucket
	}
	if have := len(c.buckets[style]); have < need {
		return &InsufficientAssetsError{Style: style, Have: have, Need: need}
	}
	return nil
}

// #endregion require

// #region sample
// Sample draws n distinct filenames from style without replacement.
func (c *Catalog) Sample(style Style, n int, rng *rand.Rand) ([]string, error) {
	bucket := c.buckets[style]
	if n > len(bucket) {
		return nil, &InsufficientAssetsError{Style: style, Have: len(bucket), Need: n}
	}
	perm := rng.Perm(len(bucket))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = bucket[perm[i]]
	}
	return out, nil
}

// #endregion sample

// #region icon
// Icon decodes filename from the catalog directory, keeping recent decodes.
func (c *Catalog) Icon(filename string) (image.Image, error) {
	if v, ok := c.icons.Get(filename); ok {
		return v.(image.Image), nil
	}
	f, err := os.Open(c.Path(filename))
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", filename, err)
	}
	c.icons.Add(filename, img)
	return img, nil
}

// #endregion icon
