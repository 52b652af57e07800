package css

import (
	"github.com/npillmayer/inspector/protocol"
)

// activator is the part of a Document which is reference counted.
type activator interface {
	AddRef()
	Release()
}

// newLifecycle creates a peer listener which keeps a document active while
// at least one peer is registered. The listener serializes its callbacks,
// so AddRef and Release are never called concurrently.
func newLifecycle(doc activator) *protocol.PeersRegisteredListener {
	return &protocol.PeersRegisteredListener{
		FirstPeerRegistered: func() {
			tracer().Debugf("first peer registered, activating document")
			doc.AddRef()
		},
		LastPeerUnregistered: func() {
			tracer().Debugf("last peer unregistered, releasing document")
			doc.Release()
		},
	}
}
