package domain

// TaskEvent is a payload-free invalidation tag; receivers re-fetch the list.
type TaskEvent string

const (
	TaskEventAdded   TaskEvent = "taskAdded"
	TaskEventUpdated TaskEvent = "taskUpdated"
	TaskEventDeleted TaskEvent = "taskDeleted"
)

func (e TaskEvent) Valid() bool {
	switch e {
	case TaskEventAdded, TaskEventUpdated, TaskEventDeleted:
		return true
	default:
		return false
	}
}
