package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Publisher is the queue surface the notifier needs
type Publisher interface {
	Publish(body []byte) error
}

// Notifier fans campaign events out into one queued notice per recipient.
// Publishing pauses between batches to respect chat-platform rate limits,
// and a failure for one recipient never aborts delivery to the rest.
type Notifier struct {
	publisher  Publisher
	batchSize  int
	batchPause time.Duration
}

// NewNotifier creates a notifier with the configured batch size
func NewNotifier(publisher Publisher, batchSize int) *Notifier {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Notifier{
		publisher:  publisher,
		batchSize:  batchSize,
		batchPause: 500 * time.Millisecond,
	}
}

// AnnounceCampaign queues the campaign announcement for every participant.
// Returns how many notices were queued.
func (n *Notifier) AnnounceCampaign(campaignID int64, title string, perUserAmount int64, recipients []int64) int {
	text := fmt.Sprintf(
		"New campaign: %s. Your share is %d. Please acknowledge once you have transferred the amount.",
		title, perUserAmount,
	)
	return n.fanOut(KindAnnouncement, campaignID, text, recipients)
}

// RemindUnpaid queues a payment reminder for every unpaid participant
func (n *Notifier) RemindUnpaid(campaignID int64, title string, perUserAmount int64, recipients []int64) int {
	text := fmt.Sprintf(
		"Reminder: campaign %s is still open. Please transfer your share of %d and acknowledge it.",
		title, perUserAmount,
	)
	return n.fanOut(KindReminder, campaignID, text, recipients)
}

// Broadcast queues a free-form message for the given recipients
func (n *Notifier) Broadcast(text string, recipients []int64) int {
	return n.fanOut(KindBroadcast, 0, text, recipients)
}

func (n *Notifier) fanOut(kind NoticeKind, campaignID int64, text string, recipients []int64) int {
	queued := 0
	for i, recipientID := range recipients {
		notice := Notice{
			RecipientID: recipientID,
			Kind:        kind,
			CampaignID:  campaignID,
			Text:        text,
		}

		body, err := json.Marshal(notice)
		if err != nil {
			zap.L().Error("failed to marshal notice",
				zap.Int64("recipient_id", recipientID),
				zap.Error(err))
			continue
		}

		if err := n.publisher.Publish(body); err != nil {
			zap.L().Warn("failed to queue notice",
				zap.Int64("recipient_id", recipientID),
				zap.String("kind", string(kind)),
				zap.Error(err))
			continue
		}
		queued++

		if (i+1)%n.batchSize == 0 && i+1 < len(recipients) {
			time.Sleep(n.batchPause)
		}
	}

	return queued
}
