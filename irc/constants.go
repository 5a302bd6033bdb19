// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import "time"

// numeric replies; every one of them is sent with the server name as prefix
const (
	RPL_WELCOME    = "001"
	RPL_NAMREPLY   = "353"
	RPL_ENDOFNAMES = "366"
	RPL_ENDOFMOTD  = "376"
)

const (
	welcomeText = "Welcome."

	// defaults applied by the config loader
	defaultServerName = "server"
	defaultMaxSendQ   = "96k"
	defaultReadQ      = "4k"

	// size of each read from the transport
	readChunkSize = 4096

	// how long Shutdown waits for clients to finish their cleanup
	shutdownGracePeriod = 2 * time.Second
)
