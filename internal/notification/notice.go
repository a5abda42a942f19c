package notification

// NoticeKind classifies an outbound message
type NoticeKind string

const (
	KindAnnouncement NoticeKind = "announcement"
	KindReminder     NoticeKind = "reminder"
	KindBroadcast    NoticeKind = "broadcast"
)

// Notice is one queued outbound message for one recipient. The worker
// only needs the recipient and the final text; the rest is diagnostic.
type Notice struct {
	RecipientID int64      `json:"recipient_id"`
	Kind        NoticeKind `json:"kind"`
	CampaignID  int64      `json:"campaign_id,omitempty"`
	Text        string     `json:"text"`
}
