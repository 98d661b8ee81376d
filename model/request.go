package model

import "time"

// ItemRequest is a wish posted by a user; items may be listed in answer to it.
type ItemRequest struct {
	ID          int64     `json:"id"`
	RequestorID int64     `json:"requestor_id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}
