package model

// Task is an entry of the external task list. Its ID is used as the
// project identifier of a checkpoint.
type Task struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Spent *string `json:"spent,omitempty"`
	Total *string `json:"total,omitempty"`
}
