// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import tea "github.com/charmbracelet/bubbletea"

// navQueueSize bounds pending navigation requests. Requests beyond it are
// dropped; only the latest screen matters.
const navQueueSize = 8

// channelNavigator implements conversation.Navigator. Navigate never blocks,
// so it is safe to call from Update and from background goroutines.
type channelNavigator struct {
	ch chan string
}

func newChannelNavigator() *channelNavigator {
	return &channelNavigator{ch: make(chan string, navQueueSize)}
}

// Navigate queues path.
func (n *channelNavigator) Navigate(path string) {
	select {
	case n.ch <- path:
	default:
	}
}

// listen waits for the next request from outside the update loop.
func (n *channelNavigator) listen() tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: <-n.ch}
	}
}
