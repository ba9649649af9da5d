package ws

import (
	"encoding/json"
	"reflect"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
	"github.com/relaychat-io/relaychat-backend/internal/service"
)

// ActionContext provides the dependencies an action needs while it runs.
type ActionContext struct {
	ConnID         string
	UserService    *service.UserService
	MessageService *service.MessageService
	GroupService   *service.GroupService
}

// Action is one decoded request envelope. Every action yields exactly one
// reply: the Handle payload on success, or an error reply derived from the
// returned error.
type Action interface {
	Name() string
	Validate() error
	Handle(ctx *ActionContext) (interface{}, error)
}

// envelope is the probe decode that extracts the action tag from a frame.
type envelope struct {
	Action string `json:"action"`
}

// Decode turns a raw frame into its registered action struct. The envelope
// is flat: the tag and the action's arguments sit in one JSON object.
func Decode(frame []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, apperr.Validationf("Invalid JSON.")
	}

	typ, ok := registry[env.Action]
	if !ok {
		return nil, apperr.Validationf("Unknown action.")
	}

	action := reflect.New(typ).Interface().(Action)
	if err := json.Unmarshal(frame, action); err != nil {
		return nil, apperr.Validationf("Invalid request payload.")
	}
	return action, nil
}
