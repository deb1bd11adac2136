package navsocket

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
)

// Subprotocols offered during the upgrade. A client that requests none of
// them speaks JSON.
const (
	SubprotocolJSON = "liststate.json"
	SubprotocolCBOR = "liststate.cbor"
)

// codec encodes frames for one negotiated subprotocol.
type codec interface {
	marshal(f Frame) ([]byte, error)
	unmarshal(data []byte, f *Frame) error
	messageType() int
}

type jsonCodec struct{}

func (jsonCodec) marshal(f Frame) ([]byte, error)       { return json.Marshal(f) }
func (jsonCodec) unmarshal(data []byte, f *Frame) error { return json.Unmarshal(data, f) }
func (jsonCodec) messageType() int                      { return websocket.TextMessage }

// cborCodec uses Core Deterministic Encoding, so equal frames produce
// identical bytes.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func (c cborCodec) marshal(f Frame) ([]byte, error)       { return c.enc.Marshal(f) }
func (c cborCodec) unmarshal(data []byte, f *Frame) error { return c.dec.Unmarshal(data, f) }
func (cborCodec) messageType() int                        { return websocket.BinaryMessage }

var defaultCBOR cborCodec

func init() {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("navsocket: CBOR encoder initialization failed: " + err.Error())
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("navsocket: CBOR decoder initialization failed: " + err.Error())
	}
	defaultCBOR = cborCodec{enc: enc, dec: dec}
}

// codecFor returns the codec of a negotiated subprotocol.
func codecFor(subprotocol string) codec {
	if subprotocol == SubprotocolCBOR {
		return defaultCBOR
	}
	return jsonCodec{}
}
