package models

import "github.com/google/uuid"

const (
	AdminRole  = "admin"
	ParentRole = "parent"
	ChildRole  = "child"
)

type Child struct {
	ID          uuid.UUID `json:"id"`
	ParentID    uuid.UUID `json:"parent_id"`
	DisplayName string    `json:"display_name"`
}
