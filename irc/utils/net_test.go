// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package utils

import (
	"reflect"
	"testing"
)

func assertEqual(supplied, expected interface{}, t *testing.T) {
	if !reflect.DeepEqual(supplied, expected) {
		t.Errorf("expected %v but got %v", expected, supplied)
	}
}

// hostnames from https://github.com/DanielOaks/irc-parser-tests
var (
	goodHostnames = []string{
		"irc.example.com",
		"i.coolguy.net",
		"irc-srv.net.uk",
		"iRC.CooLguY.NeT",
		"324.net.uk",
		"xn--bcher-kva.ch",
		"server",
		"pentos.",
	}

	badHostnames = []string{
		"-lol-.net.uk",
		"-lol.net.uk",
		"_irc._sctp.lol.net.uk",
		"irc.l%l.net.uk",
		"irc..net.uk",
		"irc server",
		".",
		"",
	}
)

func TestIsHostname(t *testing.T) {
	for _, name := range goodHostnames {
		if !IsHostname(name) {
			t.Error("Expected to pass, but could not validate hostname", name)
		}
	}

	for _, name := range badHostnames {
		if IsHostname(name) {
			t.Error("Expected to fail, but successfully validated hostname", name)
		}
	}
}

func TestIsPort(t *testing.T) {
	assertEqual(IsPort("6667"), true, t)
	assertEqual(IsPort("1"), true, t)
	assertEqual(IsPort("65535"), true, t)
	assertEqual(IsPort("0"), false, t)
	assertEqual(IsPort("65536"), false, t)
	assertEqual(IsPort("irc"), false, t)
	assertEqual(IsPort(""), false, t)
}
