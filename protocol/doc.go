/*
Package protocol implements the JSON-RPC framing of a DevTools-like
inspection protocol.

Overview

Remote inspector clients (peers) send requests of the form

	{ "id": 7, "method": "CSS.getComputedStyleForNode", "params": { "nodeId": 5 } }

and receive either a result or an error for the same id. Methods are
grouped into domains ("CSS", "DOM", …). A Domain publishes a table of
handlers, and a Dispatcher routes every request to the handler for
"<domain>.<method>". Transports (see package server) hand complete
messages to the dispatcher and write back the responses, and tell the
dispatcher about peers connecting and disconnecting.

Domains interested in peers implement PeerObserver. A PeerManager keeps
track of the peers of a domain and notifies a listener whenever a peer is
added or removed; PeersRegisteredListener reduces this to the transitions
"first peer registered" and "last peer unregistered".

Errors

Handlers return plain Go errors. The dispatcher converts them to protocol
errors with JSON-RPC error codes: errors wrapping ErrInvalidParams become
-32602, unknown methods -32601, and everything else -32603.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package protocol

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inspector.protocol'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.protocol")
}
