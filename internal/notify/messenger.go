package notify

import (
	"context"
	"sync"

	"github.com/gogotex/pingbot/pkg/logger"
)

// Messenger delivers bot output to the hosting platform.
type Messenger interface {
	Reply(ctx context.Context, commentID, text string) error
	SendPrivateMessage(ctx context.Context, to, subject, text string) error
}

const (
	KindReply          = "reply"
	KindPrivateMessage = "private_message"
)

// Message is one outbound action. CommentID is set for replies, To and Subject
// for private messages.
type Message struct {
	Kind      string `json:"kind"`
	CommentID string `json:"commentId,omitempty"`
	To        string `json:"to,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// LogMessenger only logs outbound messages. Used in development.
type LogMessenger struct{}

func (LogMessenger) Reply(_ context.Context, commentID, text string) error {
	logger.Infof("[notify] reply to %s: %q", commentID, text)
	return nil
}

func (LogMessenger) SendPrivateMessage(_ context.Context, to, subject, text string) error {
	logger.Infof("[notify] message to u/%s (%s): %q", to, subject, text)
	return nil
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	// Err, when set, is returned by every call and nothing is recorded.
	Err error
}

func (r *Recorder) Reply(_ context.Context, commentID, text string) error {
	return r.record(Message{Kind: KindReply, CommentID: commentID, Text: text})
}

func (r *Recorder) SendPrivateMessage(_ context.Context, to, subject, text string) error {
	return r.record(Message{Kind: KindPrivateMessage, To: to, Subject: subject, Text: text})
}

func (r *Recorder) record(m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, m)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Replies returns the recorded replies.
func (r *Recorder) Replies() []Message { return r.filter(KindReply) }

// PrivateMessages returns the recorded private messages.
func (r *Recorder) PrivateMessages() []Message { return r.filter(KindPrivateMessage) }

func (r *Recorder) filter(kind string) []Message {
	out := []Message{}
	for _, m := range r.Messages() {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}
