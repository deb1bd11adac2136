// Package navsocket implements router.Navigator over a WebSocket.
//
// The server drives a browser tab: Navigate sends a navigate frame and the
// page applies it with history.replaceState or history.pushState. The page
// reports every location change (including back/forward) with a location
// frame, so Location always reflects what the user sees.
//
// Frames are JSON text messages by default:
//
//	{"op":"navigate","url":"/devices?page=2","replace":true,"scroll":true}
//	{"op":"location","url":"/devices?page=2"}
//
// A client that offers the "liststate.cbor" subprotocol exchanges the same
// frames as deterministic CBOR binary messages.
package navsocket
