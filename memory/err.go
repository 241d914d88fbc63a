package memory

import (
	"errors"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/translate"
)

var f = translate.From

var (
	ErrImageTruncated = errors.New(f("image is not a whole number of instruction words"))
)
