package scheduler

import "github.com/kilianp07/homeload/core/consumption"

// runQueue is a min-heap of runs ordered by consumption.Compare.
type runQueue []consumption.Run

func (q runQueue) Len() int           { return len(q) }
func (q runQueue) Less(i, j int) bool { return consumption.Compare(q[i], q[j]) < 0 }
func (q runQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *runQueue) Push(x any) { *q = append(*q, x.(consumption.Run)) }

func (q *runQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	old[n-1] = consumption.Run{}
	*q = old[:n-1]
	return r
}
