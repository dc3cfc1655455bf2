package quest

import "fmt"

// Progress is the server-supplied puzzle progress indicator. The client
// never computes progress itself; it only renders what the backend sends.
type Progress struct {
	MainPuzzle     string `json:"main_puzzle"`
	CompletedTasks int    `json:"completed_tasks"`
	TotalTasks     int    `json:"total_tasks"`
}

// Validate checks the 0 <= completed <= total invariant.
func (p *Progress) Validate() error {
	if p.TotalTasks < 0 {
		return fmt.Errorf("total_tasks cannot be negative: %d", p.TotalTasks)
	}
	if p.CompletedTasks < 0 || p.CompletedTasks > p.TotalTasks {
		return fmt.Errorf("completed_tasks %d out of range [0, %d]", p.CompletedTasks, p.TotalTasks)
	}
	return nil
}

// Percent returns completion as a percentage. Zero total means zero percent.
func (p *Progress) Percent() float64 {
	if p.TotalTasks == 0 {
		return 0
	}
	return float64(p.CompletedTasks) / float64(p.TotalTasks) * 100
}

// Solved reports whether every task is complete.
func (p *Progress) Solved() bool {
	return p.TotalTasks > 0 && p.CompletedTasks == p.TotalTasks
}
