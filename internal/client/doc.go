// SPDX-License-Identifier: Apache-2.0

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI flows, application services, the realtime
// channel, and the background metrics poller into a single process
// lifecycle.
package client
