package ws

import (
	"reflect"
)

var registry = map[string]reflect.Type{}

func init() {
	// Register all action types
	Register(&RegisterAction{})
	Register(&SendAction{})
	Register(&ShowAction{})
	Register(&MarkReadAction{})
	Register(&ReadStatusAction{})
	Register(&DeleteMessageAction{})
	Register(&CreateGroupAction{})
	Register(&AddMemberAction{})
	Register(&ListGroupsAction{})
	Register(&ListMembersAction{})
	Register(&SendGroupMessageAction{})
	Register(&ShowGroupMessagesAction{})
	Register(&DeleteGroupMessageAction{})
	Register(&LeaveGroupAction{})
	Register(&GroupReadStatusAction{})
}

func Register(action Action) {
	registry[action.Name()] = reflect.TypeOf(action).Elem()
}

// Registry returns the action registry for testing
func Registry() map[string]reflect.Type {
	return registry
}
