package port

import "context"

type CartEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Username    string `json:"username"`
	RowsWritten int    `json:"rows_written"`
	ItemCount   int    `json:"item_count"`
	Version     int    `json:"version"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event CartEvent) error
}
