package duelstore

// SubscriberBuffer is the snapshot buffer per subscriber. When it fills,
// older snapshots are coalesced away in favor of the newest document.
const SubscriberBuffer = 16

// Log messages
const (
	LogMsgDocumentCreated = "Duel document created"
	LogMsgDocumentPatched = "Duel document patched"
)
