// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/ergochat/minircd/irc/codec"
)

// Channel represents a channel that clients can join.
// Members are kept in join order, which is also NAMES order. The channel
// doesn't own its members; it only refers to them.
type Channel struct {
	name    string
	members []*Client
}

// NewChannel creates a new, empty channel.
func NewChannel(name string) *Channel {
	return &Channel{
		name: name,
	}
}

// Name returns the channel name.
func (channel *Channel) Name() string {
	return channel.name
}

// Members returns a copy of the member list.
func (channel *Channel) Members() (result []*Client) {
	result = make([]*Client, len(channel.members))
	copy(result, channel.members)
	return
}

// Nicks returns the nicks of all members, in join order.
func (channel *Channel) Nicks() (result []string) {
	result = make([]string, len(channel.members))
	for i, member := range channel.members {
		result[i] = member.nick
	}
	return
}

// HasMember returns true if the given client is a member of this channel.
func (channel *Channel) HasMember(client *Client) bool {
	for _, member := range channel.members {
		if member == client {
			return true
		}
	}
	return false
}

// hasNick returns true if some member is using nick.
func (channel *Channel) hasNick(nick string) bool {
	for _, member := range channel.members {
		if member.nick == nick {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the channel has no members.
func (channel *Channel) IsEmpty() bool {
	return len(channel.members) == 0
}

func (channel *Channel) add(client *Client) {
	channel.members = append(channel.members, client)
}

func (channel *Channel) remove(client *Client) (removed bool) {
	for i, member := range channel.members {
		if member == client {
			channel.members = append(channel.members[:i:i], channel.members[i+1:]...)
			return true
		}
	}
	return false
}

// Broadcast sends msg to every member except `except` (which may be nil).
func (channel *Channel) Broadcast(msg codec.Message, except *Client) {
	for _, member := range channel.members {
		if member != except {
			member.SendMessage(msg)
		}
	}
}
