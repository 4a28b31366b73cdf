package models

import "time"

// Entity carries the identity and bookkeeping timestamps shared by every
// record held in the entity store.
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
