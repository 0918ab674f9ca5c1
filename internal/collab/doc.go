// Package collab implements the real-time collaborative editing layer
// for documents.
//
// The package implements:
//   - Conn: One WebSocket connection from a browser tab editing a document
//   - Registry: Authoritative mapping of document ID to its set of joined connections
//   - Hub: Fan-out of a frame to every group member except the sender
//   - Handler: Frame parsing, validation, and the per-connection join state machine
//
// There is no merge engine: concurrent edits resolve as last-write-wins,
// and frames carry no sequence numbers. Cross-sender ordering is whatever
// the transport delivers.
package collab
