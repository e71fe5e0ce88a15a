package media

// Status is the terminal state of one file's rename task.
type Status string

const (
	StatusRenamed   Status = "renamed"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusPlanned   Status = "planned"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one file's rename task.
type Result struct {
	Source      string
	Destination string
	Status      Status
	Err         error
}

// BatchReport collects the per-file results of a rename invocation in
// enumeration order.
type BatchReport struct {
	Results []Result
}

// Count returns how many results ended in status s.
func (r *BatchReport) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failures returns the failed results.
func (r *BatchReport) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}
