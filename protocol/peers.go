package protocol

import (
	"sync"
)

// PeerRegistrationListener is notified by a PeerManager whenever a peer is
// added or removed.
type PeerRegistrationListener interface {
	PeerRegistered(peer Peer)
	PeerUnregistered(peer Peer)
}

// PeerManager keeps track of the peers of a domain.
// It is safe for concurrent use.
type PeerManager struct {
	mu       sync.Mutex
	peers    map[string]Peer
	listener PeerRegistrationListener
}

// NewPeerManager creates a peer manager without peers.
func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[string]Peer)}
}

// SetListener sets the listener to notify about peer changes.
func (pm *PeerManager) SetListener(l PeerRegistrationListener) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.listener = l
}

// AddPeer registers a peer. It returns false if the peer has already been
// registered.
//
// The listener is called with the peer manager locked, thus notifications
// arrive in the order of AddPeer and RemovePeer calls. Listeners must not
// call back into the peer manager.
func (pm *PeerManager) AddPeer(peer Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if _, ok := pm.peers[peer.ID()]; ok {
		return false
	}
	pm.peers[peer.ID()] = peer
	if pm.listener != nil {
		pm.listener.PeerRegistered(peer)
	}
	return true
}

// RemovePeer unregisters a peer. It returns false if the peer has not been
// registered.
func (pm *PeerManager) RemovePeer(peer Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if _, ok := pm.peers[peer.ID()]; !ok {
		return false
	}
	delete(pm.peers, peer.ID())
	if pm.listener != nil {
		pm.listener.PeerUnregistered(peer)
	}
	return true
}

// HasRegisteredPeers returns true if at least one peer is registered.
func (pm *PeerManager) HasRegisteredPeers() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.peers) > 0
}

// PeersRegisteredListener is a PeerRegistrationListener which only reports
// the transitions from zero to one peer (FirstPeerRegistered) and from one
// to zero peers (LastPeerUnregistered). Either function may be nil.
type PeersRegisteredListener struct {
	FirstPeerRegistered  func()
	LastPeerUnregistered func()
	mu                   sync.Mutex
	count                int
}

var _ PeerRegistrationListener = (*PeersRegisteredListener)(nil)

// PeerRegistered is part of interface PeerRegistrationListener.
func (l *PeersRegisteredListener) PeerRegistered(Peer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	if l.count == 1 && l.FirstPeerRegistered != nil {
		l.FirstPeerRegistered()
	}
}

// PeerUnregistered is part of interface PeerRegistrationListener.
func (l *PeersRegisteredListener) PeerUnregistered(Peer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 {
		tracer().Errorf("peer unregistered without being registered")
		return
	}
	l.count--
	if l.count == 0 && l.LastPeerUnregistered != nil {
		l.LastPeerUnregistered()
	}
}
