// Copyright (c) 2019 Shivaram Lingamneni
// released under the MIT license

package utils

import (
	"testing"
)

func TestTryAcquire(t *testing.T) {
	count := 3
	var sem Semaphore
	sem.Initialize(count)

	for i := 0; i < count; i++ {
		assertEqual(sem.TryAcquire(), true, t)
	}
	// used up the capacity
	assertEqual(sem.TryAcquire(), false, t)
	sem.Release()
	// got one slot back
	assertEqual(sem.TryAcquire(), true, t)
}

func TestHashSet(t *testing.T) {
	set := make(HashSet[string])
	set.Add("#room")
	assertEqual(set.Has("#room"), true, t)
	assertEqual(set.Has("#other"), false, t)
	set.Remove("#room")
	assertEqual(set.Has("#room"), false, t)
	assertEqual(len(set), 0, t)
}
