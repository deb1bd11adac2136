package navsocket

import (
	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/router"
)

// Frame operations.
const (
	// OpNavigate is sent to the client to change its location.
	OpNavigate = "navigate"

	// OpLocation is sent by the client after its location changed.
	OpLocation = "location"
)

// Frame is a message exchanged with the client.
type Frame struct {
	Op      string `json:"op" cbor:"op"`
	URL     string `json:"url" cbor:"url"`
	Replace bool   `json:"replace,omitempty" cbor:"replace,omitempty"`
	Scroll  bool   `json:"scroll,omitempty" cbor:"scroll,omitempty"`
}

// navigateFrame builds the frame for a resolved navigation.
func navigateFrame(req router.NavigationRequest) Frame {
	return Frame{
		Op:      OpNavigate,
		URL:     req.Location().String(),
		Replace: req.Options.Replace,
		Scroll:  req.Options.Scroll,
	}
}

// decodeFrame decodes a client frame. Only location frames are accepted.
func decodeFrame(c codec, data []byte) (router.Location, error) {
	var f Frame
	if err := c.unmarshal(data, &f); err != nil {
		return router.Location{}, errors.New("E020").WithDetail("malformed frame").Wrap(err)
	}
	if f.Op != OpLocation {
		return router.Location{}, errors.New("E020").WithDetail("unexpected frame op " + f.Op)
	}
	loc, err := router.ParseLocation(f.URL)
	if err != nil {
		return router.Location{}, errors.New("E021").WithDetail(f.URL).Wrap(err)
	}
	return loc, nil
}
