package ws

import (
	"fmt"
	"strings"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
)

type CreateGroupAction struct {
	GroupName string `json:"group_name"`
	Creator   string `json:"creator"`
}

func (a *CreateGroupAction) Name() string { return "create_group" }

func (a *CreateGroupAction) Validate() error {
	if strings.TrimSpace(a.GroupName) == "" || strings.TrimSpace(a.Creator) == "" {
		return apperr.Validationf("Missing group name or creator.")
	}
	return nil
}

func (a *CreateGroupAction) Handle(ctx *ActionContext) (interface{}, error) {
	group, err := ctx.GroupService.Create(a.GroupName, a.Creator)
	if err != nil {
		return nil, err
	}
	return OK(fmt.Sprintf("Group '%s' created successfully.", group.Name)), nil
}

type AddMemberAction struct {
	GroupName string `json:"group_name"`
	Username  string `json:"username"`
	Adder     string `json:"adder"`
}

func (a *AddMemberAction) Name() string { return "add_member" }

func (a *AddMemberAction) Validate() error {
	if strings.TrimSpace(a.GroupName) == "" || strings.TrimSpace(a.Username) == "" || strings.TrimSpace(a.Adder) == "" {
		return apperr.Validationf("Missing group name, username, or adder.")
	}
	return nil
}

func (a *AddMemberAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.GroupService.AddMember(a.GroupName, a.Username, a.Adder); err != nil {
		return nil, err
	}
	return OK(fmt.Sprintf("User '%s' added to group '%s' successfully.", a.Username, a.GroupName)), nil
}

type ListGroupsAction struct {
	Username string `json:"username"`
}

func (a *ListGroupsAction) Name() string { return "list_groups" }

func (a *ListGroupsAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return apperr.Validationf("Username not provided.")
	}
	return nil
}

func (a *ListGroupsAction) Handle(ctx *ActionContext) (interface{}, error) {
	rows, err := ctx.GroupService.ListGroups(a.Username)
	if err != nil {
		return nil, err
	}
	groups := make([]GroupView, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, GroupView{
			ID:          row.ID,
			Name:        row.Name,
			CreatedAt:   formatTime(row.CreatedAt),
			MemberCount: row.MemberCount,
		})
	}
	return GroupsReply{Status: "ok", Groups: groups}, nil
}

type ListMembersAction struct {
	GroupName string `json:"group_name"`
}

func (a *ListMembersAction) Name() string { return "list_members" }

func (a *ListMembersAction) Validate() error {
	if strings.TrimSpace(a.GroupName) == "" {
		return apperr.Validationf("Group name not provided.")
	}
	return nil
}

func (a *ListMembersAction) Handle(ctx *ActionContext) (interface{}, error) {
	rows, err := ctx.GroupService.ListMembers(a.GroupName)
	if err != nil {
		return nil, err
	}
	members := make([]MemberView, 0, len(rows))
	for _, row := range rows {
		members = append(members, MemberView{
			Username: row.Username,
			JoinedAt: formatTime(row.JoinedAt),
			IsAdmin:  row.IsAdmin,
		})
	}
	return MembersReply{Status: "ok", Members: members}, nil
}

type SendGroupMessageAction struct {
	Sender    string `json:"sender"`
	GroupName string `json:"group_name"`
	Message   string `json:"message"`
}

func (a *SendGroupMessageAction) Name() string { return "send_group_message" }

func (a *SendGroupMessageAction) Validate() error {
	if strings.TrimSpace(a.Sender) == "" || strings.TrimSpace(a.GroupName) == "" || strings.TrimSpace(a.Message) == "" {
		return apperr.Validationf("Missing sender, group name, or message text.")
	}
	return nil
}

func (a *SendGroupMessageAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.GroupService.SendMessage(a.Sender, a.GroupName, a.Message); err != nil {
		return nil, err
	}
	return OK("Group message sent."), nil
}

type ShowGroupMessagesAction struct {
	Username  string `json:"username"`
	GroupName string `json:"group_name"`
}

func (a *ShowGroupMessagesAction) Name() string { return "show_group_messages" }

func (a *ShowGroupMessagesAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" || strings.TrimSpace(a.GroupName) == "" {
		return apperr.Validationf("Missing group name or username.")
	}
	return nil
}

func (a *ShowGroupMessagesAction) Handle(ctx *ActionContext) (interface{}, error) {
	rows, err := ctx.GroupService.History(a.Username, a.GroupName)
	if err != nil {
		return nil, err
	}
	messages := make([]MessageView, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, MessageView{
			ID:        row.ID,
			Sender:    row.Sender,
			Message:   row.Content,
			Timestamp: formatTime(row.CreatedAt),
		})
	}
	return MessagesReply{Status: "ok", Messages: messages}, nil
}

type DeleteGroupMessageAction struct {
	Username  string `json:"username"`
	MessageID uint   `json:"message_id"`
}

func (a *DeleteGroupMessageAction) Name() string { return "delete_group_message" }

func (a *DeleteGroupMessageAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" || a.MessageID == 0 {
		return apperr.Validationf("Missing username or message ID.")
	}
	return nil
}

func (a *DeleteGroupMessageAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.GroupService.DeleteMessage(a.Username, a.MessageID); err != nil {
		return nil, err
	}
	return OK("Group message deleted successfully."), nil
}

type LeaveGroupAction struct {
	Username  string `json:"username"`
	GroupName string `json:"group_name"`
}

func (a *LeaveGroupAction) Name() string { return "leave_group" }

func (a *LeaveGroupAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" || strings.TrimSpace(a.GroupName) == "" {
		return apperr.Validationf("Missing username or group name.")
	}
	return nil
}

func (a *LeaveGroupAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.GroupService.Leave(a.Username, a.GroupName); err != nil {
		return nil, err
	}
	return OK(fmt.Sprintf("Successfully left group '%s'.", a.GroupName)), nil
}

type GroupReadStatusAction struct {
	MessageID uint `json:"message_id"`
}

func (a *GroupReadStatusAction) Name() string { return "group_read_status" }

func (a *GroupReadStatusAction) Validate() error {
	if a.MessageID == 0 {
		return apperr.Validationf("Message ID not provided.")
	}
	return nil
}

func (a *GroupReadStatusAction) Handle(ctx *ActionContext) (interface{}, error) {
	readBy, notReadBy, err := ctx.GroupService.ReadStatus(a.MessageID)
	if err != nil {
		return nil, err
	}
	readers := make([]ReadByView, 0, len(readBy))
	for _, row := range readBy {
		readers = append(readers, ReadByView{Username: row.Username, ReadAt: formatTime(row.ReadAt)})
	}
	if notReadBy == nil {
		notReadBy = []string{}
	}
	return GroupReadStatusReply{Status: "ok", ReadBy: readers, NotReadBy: notReadBy}, nil
}
