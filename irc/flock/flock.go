// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package flock

import (
	"errors"

	"github.com/gofrs/flock"
)

var (
	CouldntAcquire = errors.New("Couldn't acquire flock (is another minircd running?)")
)

// TryAcquireFlock takes an exclusive lock on path without blocking.
// An empty path disables locking.
func TryAcquireFlock(path string) (fl Flocker, err error) {
	if path == "" {
		return &noopFlocker{}, nil
	}
	f := flock.New(path)
	success, err := f.TryLock()
	if err != nil {
		return nil, err
	} else if !success {
		return nil, CouldntAcquire
	}
	return f, nil
}
