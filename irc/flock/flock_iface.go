// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package flock

// Flocker is held for the lifetime of the server. *flock.Flock satisfies it;
// it isn't a sync.Locker because Unlock returns an error.
type Flocker interface {
	Unlock() error
}

type noopFlocker struct{}

func (n *noopFlocker) Unlock() error {
	return nil
}
