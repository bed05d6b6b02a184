package types

// Status is a type for the lifecycle status of a persisted resource.
// It tracks whether a row should be included in queries, independently of
// any domain specific status the entity carries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
