//go:build !plan9 && !windows

// Copyright (c) 2020 Shivaram Lingamneni
// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package utils

import (
	"os"
	"syscall"
)

var (
	// ServerExitSignals are the signals the server will exit on.
	ServerExitSignals = []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
)
