package domain

// Evaluation holds the fields derived from a checklist.
type Evaluation struct {
	Status   Status
	Progress int
}

// Evaluate derives progress and status from a checklist.
// Progress is the percentage of completed items rounded half up;
// an empty checklist yields 0 and pending.
// Returns ErrInvalidChecklist if any item has an empty title.
func Evaluate(items []ChecklistItem) (Evaluation, error) {
	completed := 0
	for _, item := range items {
		if item.Title == "" {
			return Evaluation{}, ErrInvalidChecklist
		}
		if item.Completed {
			completed++
		}
	}

	total := len(items)
	if total == 0 {
		return Evaluation{Progress: 0, Status: StatusPending}, nil
	}

	// round(100*c/t) with halves rounded up, without floating point
	progress := (200*completed + total) / (2 * total)
	return Evaluation{Progress: progress, Status: StatusForProgress(progress)}, nil
}

// StatusForProgress maps a progress value to its status.
func StatusForProgress(progress int) Status {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// ForceComplete returns a copy of the checklist with every item completed.
func ForceComplete(items []ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, item := range items {
		out[i] = ChecklistItem{Title: item.Title, Completed: true}
	}
	return out
}

// ChecklistItemInput is a checklist item as supplied by a caller, before its
// shape has been checked. Nil fields were not supplied.
type ChecklistItemInput struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// NewChecklistItemInput returns a fully populated ChecklistItemInput.
func NewChecklistItemInput(title string, completed bool) ChecklistItemInput {
	return ChecklistItemInput{Title: &title, Completed: &completed}
}

// ParseChecklist checks the shape of a caller-supplied checklist.
// A nil slice means no checklist was supplied and is rejected;
// an empty non-nil slice is a valid empty checklist.
// Every item needs a non-empty title and an explicit completed flag.
func ParseChecklist(in []ChecklistItemInput) ([]ChecklistItem, error) {
	if in == nil {
		return nil, ErrInvalidChecklist
	}
	items := make([]ChecklistItem, 0, len(in))
	for _, raw := range in {
		if raw.Title == nil || *raw.Title == "" || raw.Completed == nil {
			return nil, ErrInvalidChecklist
		}
		items = append(items, ChecklistItem{Title: *raw.Title, Completed: *raw.Completed})
	}
	return items, nil
}
