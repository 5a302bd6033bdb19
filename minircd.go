// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/ergochat/minircd/irc"
	"github.com/ergochat/minircd/irc/logger"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

func main() {
	irc.SetVersionString(version, commit)
	usage := `minircd.
Usage:
	minircd run [--conf <filename>] [--port <port>] [--quiet] [--smoke]
	minircd checkconf [--conf <filename>]
	minircd -h | --help
	minircd --version
Options:
	--conf <filename>  Configuration file to use [default: minircd.yaml].
	--port <port>      Listen for plaintext IRC on this port only, ignoring configured listeners.
	--quiet            Don't show startup/shutdown lines.
	--smoke            Load everything and exit without serving.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, irc.Ver)

	configfile := arguments["--conf"].(string)
	config, err := irc.LoadRawConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}
	if port, ok := arguments["--port"].(string); ok {
		if err := config.OverridePort(port); err != nil {
			log.Fatal("Invalid port: ", err.Error())
		}
	}
	if err := config.Prepare(); err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	if arguments["checkconf"].(bool) {
		fmt.Println("config file OK:", configfile)
		return
	}

	logman, err := logger.NewManager(config.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully:", err.Error())
	}
	defer logman.Close()

	if arguments["run"].(bool) {
		if !arguments["--quiet"].(bool) {
			logman.Info("server", fmt.Sprintf("%s starting", irc.Ver))
		}

		// warning if running a non-final version
		if strings.Contains(irc.Ver, "unreleased") {
			logman.Warning("server", "You are currently running an unreleased beta version of minircd that may be unstable.")
		}

		server, err := irc.NewServer(config, logman)
		if err != nil {
			logman.Error("server", fmt.Sprintf("Could not load server: %s", err.Error()))
			logman.Close()
			os.Exit(1)
		}
		if !arguments["--smoke"].(bool) {
			server.Run()
		} else {
			server.Shutdown()
		}
	}
}
