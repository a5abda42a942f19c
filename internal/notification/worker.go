package notification

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Sender delivers one message to one recipient over the chat transport.
// The transport itself is outside this service; LogSender is the default.
type Sender interface {
	Send(recipientID int64, text string) error
}

// LogSender writes deliveries to the log instead of a real transport
type LogSender struct{}

// Send logs the outbound message
func (LogSender) Send(recipientID int64, text string) error {
	zap.L().Info("delivering notice",
		zap.Int64("recipient_id", recipientID),
		zap.String("text", text))
	return nil
}

// Worker turns queued notice payloads into deliveries
type Worker struct {
	sender Sender
}

// NewWorker creates a worker delivering through the given sender
func NewWorker(sender Sender) *Worker {
	return &Worker{sender: sender}
}

// Process decodes one queued payload and delivers it. A malformed payload
// is dropped (nil error) so the queue does not redeliver it forever; a
// delivery failure is returned so the consumer can retry.
func (w *Worker) Process(body []byte) error {
	var notice Notice
	if err := json.Unmarshal(body, &notice); err != nil {
		zap.L().Warn("dropping malformed notice", zap.Error(err))
		return nil
	}

	if err := w.sender.Send(notice.RecipientID, notice.Text); err != nil {
		return fmt.Errorf("failed to deliver notice to %d: %w", notice.RecipientID, err)
	}

	return nil
}
