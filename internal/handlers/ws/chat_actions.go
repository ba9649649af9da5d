package ws

import (
	"fmt"
	"strings"

	"github.com/relaychat-io/relaychat-backend/internal/apperr"
)

type RegisterAction struct {
	Username string `json:"username"`
}

func (a *RegisterAction) Name() string { return "register" }

func (a *RegisterAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return apperr.Validationf("Username not provided.")
	}
	return nil
}

func (a *RegisterAction) Handle(ctx *ActionContext) (interface{}, error) {
	user, err := ctx.UserService.Register(a.Username)
	if err != nil {
		return nil, err
	}
	return OK(fmt.Sprintf("User '%s' registered successfully.", user.Username)), nil
}

type SendAction struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

func (a *SendAction) Name() string { return "send" }

func (a *SendAction) Validate() error {
	if strings.TrimSpace(a.Sender) == "" || strings.TrimSpace(a.Receiver) == "" || strings.TrimSpace(a.Message) == "" {
		return apperr.Validationf("Missing sender, receiver, or message text.")
	}
	return nil
}

func (a *SendAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.MessageService.Send(a.Sender, a.Receiver, a.Message); err != nil {
		return nil, err
	}
	return OK("Message sent."), nil
}

type ShowAction struct {
	Username string `json:"username"`
}

func (a *ShowAction) Name() string { return "show" }

func (a *ShowAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return apperr.Validationf("Username not provided.")
	}
	return nil
}

func (a *ShowAction) Handle(ctx *ActionContext) (interface{}, error) {
	rows, err := ctx.MessageService.Inbox(a.Username)
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

type MarkReadAction struct {
	Username  string `json:"username"`
	MessageID uint   `json:"message_id"`
}

func (a *MarkReadAction) Name() string { return "mark_read" }

func (a *MarkReadAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" || a.MessageID == 0 {
		return apperr.Validationf("Missing username or message ID.")
	}
	return nil
}

func (a *MarkReadAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.MessageService.MarkRead(a.Username, a.MessageID); err != nil {
		return nil, err
	}
	return OK("Message marked as read."), nil
}

type ReadStatusAction struct {
	Username string `json:"username"`
}

func (a *ReadStatusAction) Name() string { return "read_status" }

func (a *ReadStatusAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return apperr.Validationf("Username not provided.")
	}
	return nil
}

func (a *ReadStatusAction) Handle(ctx *ActionContext) (interface{}, error) {
	rows, err := ctx.MessageService.ReadStatus(a.Username)
	if err != nil {
		return nil, err
	}
	status := make([]ReadStatusView, 0, len(rows))
	for _, row := range rows {
		status = append(status, ReadStatusView{
			MessageID: row.MessageID,
			Reader:    row.Reader,
			ReadAt:    formatTime(row.ReadAt),
		})
	}
	return ReadStatusReply{Status: "ok", ReadStatus: status}, nil
}

type DeleteMessageAction struct {
	Username  string `json:"username"`
	MessageID uint   `json:"message_id"`
}

func (a *DeleteMessageAction) Name() string { return "delete_message" }

func (a *DeleteMessageAction) Validate() error {
	if strings.TrimSpace(a.Username) == "" || a.MessageID == 0 {
		return apperr.Validationf("Missing username or message ID.")
	}
	return nil
}

func (a *DeleteMessageAction) Handle(ctx *ActionContext) (interface{}, error) {
	if err := ctx.MessageService.Delete(a.Username, a.MessageID); err != nil {
		return nil, err
	}
	return OK("Message deleted successfully."), nil
}
