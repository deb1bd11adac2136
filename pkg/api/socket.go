package api

import (
	"net/http"

	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/listsync"
	"github.com/devconsole/liststate/pkg/navsocket"
	"github.com/devconsole/liststate/pkg/router"
)

// handleSocket upgrades the request and keeps the tab's location
// canonical until the tab disconnects.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	reports := make(chan router.Location, 16)

	conn, err := s.upgrader.Upgrade(w, r, navsocket.WithLogger(s.logger),
		navsocket.WithLocationHook(func(loc router.Location) {
			select {
			case reports <- loc:
			default:
				s.logger.Warn("api: dropped location report", "location", loc.String())
			}
		}))
	if err != nil {
		s.logger.Error("api: websocket upgrade failed", "error", err)
		return
	}

	f := listsync.New(conn, s.facadeOptions()...)
	s.logger.Debug("api: navigator connected", "location", conn.Location().String())

	go conn.Listen()

	s.canonicalize(f, conn)
	for {
		select {
		case <-reports:
			s.canonicalize(f, conn)
		case <-conn.Done():
			s.logger.Debug("api: navigator disconnected")
			return
		}
	}
}

// canonicalize rewrites the navigator's location into its canonical form
// when it differs.
func (s *Server) canonicalize(f *listsync.Facade, nav router.Navigator) {
	loc := nav.Location()
	k := s.defaults.KindOf(loc.Path)
	state, err := f.Read(k)
	if err != nil {
		s.logger.Warn("api: read failed", "resource", k.String(), "error", err)
		return
	}
	target, err := f.Target(k, state, liststate.Extras{})
	if err != nil {
		s.logger.Warn("api: format failed", "resource", k.String(), "error", err)
		return
	}
	if target == loc.String() {
		return
	}
	if err := f.Write(k, state, router.WithoutScroll()); err != nil {
		s.logger.Warn("api: canonicalize failed", "resource", k.String(), "error", err)
	}
}
