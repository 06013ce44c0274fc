package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ChatInput is a message sent to the assistant panel.
type ChatInput struct {
	Message    string `json:"message"`
	Department string `json:"department,omitempty"`
}

// ChatReply is the assistant answer.
type ChatReply struct {
	Reply      string `json:"reply"`
	Department string `json:"department,omitempty"`
}

type messageSender interface {
	SendMessage(ctx context.Context, text, department string) (string, error)
}

// ChatQuery forwards messages to the assistant.
type ChatQuery struct {
	assistant messageSender
}

// NewChatQuery builds the query.
func NewChatQuery(assistant messageSender) *ChatQuery {
	return &ChatQuery{assistant: assistant}
}

var _ gocommand.Querier[ChatInput, ChatReply] = (*ChatQuery)(nil)

// Query sends the message and returns the reply.
func (q *ChatQuery) Query(ctx context.Context, msg ChatInput) (ChatReply, error) {
	if q.assistant == nil {
		return ChatReply{}, errors.New("chat query requires assistant")
	}
	reply, err := q.assistant.SendMessage(ctx, msg.Message, msg.Department)
	if err != nil {
		return ChatReply{}, err
	}
	return ChatReply{Reply: reply, Department: msg.Department}, nil
}
