// Package clipboard moves PNG images between the annotator and the system
// clipboard.
package clipboard

import "errors"

// ErrUnavailable is wrapped by every error caused by the clipboard not being
// usable in this process.
var ErrUnavailable = errors.New("clipboard unavailable")
