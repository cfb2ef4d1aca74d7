package assets

import (
	"errors"
	"fmt"
)

// #region style
// Style is the visual family an icon belongs to.
type Style string

const (
	StyleFilled   Style = "filled"
	StyleUnfilled Style = "unfilled"
	StyleOpen     Style = "open"
)

// Styles lists the buckets in cycling order.
var Styles = []Style{StyleFilled, StyleUnfilled, StyleOpen}

// #endregion style

// #region entry
// Entry is one classified icon file.
type Entry struct {
	Filename string
	Style    Style
}

// #endregion entry

// #region options
// Options controls how a directory is scanned.
type Options struct {
	Extensions   []string // matched case-insensitively, with leading dot
	MinPerBucket int      // smallest bucket a trial may sample from
	Strict       bool     // unfilled excludes names containing "dash"
	IconCache    int      // decoded icons kept in memory
}

// DefaultOptions returns the scan settings used by the experiment.
func DefaultOptions() Options {
	return Options{
		Extensions:   []string{".png"},
		MinPerBucket: 3,
		Strict:       true,
		IconCache:    128,
	}
}

// #endregion options

// #region errors
var (
	// ErrCatalogEmpty is returned when the asset directory holds no usable icons.
	ErrCatalogEmpty = errors.New("asset catalog empty")
	// ErrInsufficientAssets is matched by every *InsufficientAssetsError.
	ErrInsufficientAssets = errors.New("insufficient assets")
)

// InsufficientAssetsError names the bucket that cannot satisfy a request.
type InsufficientAssetsError struct {
	Style Style
	Have  int
	Need  int
}

func (e *InsufficientAssetsError) Error() string {
	return fmt.Sprintf("insufficient assets in %q bucket: have %d, need %d", e.Style, e.Have, e.Need)
}

func (e *InsufficientAssetsError) Is(target error) bool {
	return target == ErrInsufficientAssets
}

// #endregion errors
