package board

import "taskboard/internal/model"

// Move identifies a drag-initiated status transition.
type Move struct {
	TaskID int
	From   model.TaskStatus
	To     model.TaskStatus
}

// ResolveDrop maps a raw drop gesture to a move. It returns ok=false for
// every drop that must be ignored: a cancelled drag (no destination), a drop
// back onto the source column, or an unknown column id. A rejected drop
// causes no store mutation and no remote call.
func ResolveDrop(taskID int, source, dest string) (Move, bool) {
	if dest == "" || dest == source {
		return Move{}, false
	}

	from := model.TaskStatus(source)
	to := model.TaskStatus(dest)
	if !from.IsValid() || !to.IsValid() {
		return Move{}, false
	}

	return Move{TaskID: taskID, From: from, To: to}, true
}
