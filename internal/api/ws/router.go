package ws

import (
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
)

// clientRouter mirrors every route change to the client
type clientRouter struct {
	history *route.History
	send    func(types.WSMessage) bool
}

func (r *clientRouter) Push(path string) {
	r.history.Push(path)
	r.send(types.WSMessage{Type: TypeNavigate, Path: path})
}

func (r *clientRouter) Replace(path string) {
	if r.history.Current() == path {
		return
	}
	r.history.Replace(path)
	r.send(types.WSMessage{Type: TypeNavigate, Path: path, Replace: true})
}

func (r *clientRouter) Back() {
	before := r.history.Current()
	r.history.Back()
	if after := r.history.Current(); after != before {
		r.send(types.WSMessage{Type: TypeNavigate, Path: after, Message: "back"})
	}
}

func (r *clientRouter) Current() string {
	return r.history.Current()
}
