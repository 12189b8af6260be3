package types

import "time"

// HistoryRecord is an immutable log entry for one published post.
type HistoryRecord struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	FullCaption string    `json:"full_caption"`
	Prompt      string    `json:"prompt"`
	PostType    PostType  `json:"post_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func CloneHistoryRecord(record *HistoryRecord) *HistoryRecord {
	if record == nil {
		return nil
	}
	copy := *record
	return &copy
}
