//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
)

var errPlatform = fmt.Errorf("%w: not supported on this platform", ErrUnavailable)

func WriteImage(image.Image) error { return errPlatform }

func ReadImage() (image.Image, error) { return nil, errPlatform }
