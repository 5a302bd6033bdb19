// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"sort"
)

// ChannelManager keeps track of all the channels on the server,
// creating them on first join and deleting them on last part.
// A name is present if and only if its channel has members.
//
// It has no lock of its own: every call happens inside a handling step,
// with the server's step lock held.
type ChannelManager struct {
	// chans maps channel name -> *Channel; names are compared byte for byte
	chans map[string]*Channel
}

// NewChannelManager returns a new ChannelManager.
func NewChannelManager() *ChannelManager {
	return &ChannelManager{
		chans: make(map[string]*Channel),
	}
}

// Get returns the channel named `name`, or nil.
func (cm *ChannelManager) Get(name string) *Channel {
	return cm.chans[name]
}

// Join adds `client` to the channel named `name`, creating it if necessary.
// It fails, changing nothing, if a member already uses the client's nick.
func (cm *ChannelManager) Join(client *Client, name string) (channel *Channel, created bool, err error) {
	channel = cm.chans[name]
	if channel == nil {
		channel = NewChannel(name)
		created = true
	} else if channel.hasNick(client.nick) {
		return nil, false, errNicknameInUse
	}
	channel.add(client)
	if created {
		cm.chans[name] = channel
	}
	return channel, created, nil
}

// Part removes `client` from the channel named `name`, deleting the
// channel if it's left empty.
func (cm *ChannelManager) Part(client *Client, name string) (deleted bool, err error) {
	channel := cm.chans[name]
	if channel == nil {
		return false, errNoSuchChannel
	}
	if !channel.remove(client) {
		return false, errNotOnChannel
	}
	if channel.IsEmpty() {
		delete(cm.chans, name)
		deleted = true
	}
	return deleted, nil
}

// ChannelsOf returns the channels `client` belongs to, sorted by name.
// Membership lives here rather than on the client.
func (cm *ChannelManager) ChannelsOf(client *Client) (result []*Channel) {
	for _, channel := range cm.chans {
		if channel.HasMember(client) {
			result = append(result, channel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].name < result[j].name })
	return
}

// Names returns the names of all channels, sorted.
func (cm *ChannelManager) Names() (result []string) {
	result = make([]string, 0, len(cm.chans))
	for name := range cm.chans {
		result = append(result, name)
	}
	sort.Strings(result)
	return
}

// Len returns the number of channels.
func (cm *ChannelManager) Len() int {
	return len(cm.chans)
}
