// SPDX-License-Identifier: Apache-2.0

// Package realtime owns the WebSocket channel to the Sparky orchestrator.
//
// [Manager] maintains at most one logical connection per active session and
// delivers typed server-pushed events (chat messages, workflow status,
// agent execution, typing indicator, recommendations, errors) to subscribers, shielding the
// rest of the client from transport details. Connection failures drive an
// exponential-backoff reconnect loop bounded by a configurable attempt cap;
// the channel state machine lives in the shared state store so the UI can
// render it directly.
package realtime
