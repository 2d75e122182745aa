package sched

// Job is one unit of work known to the engine. The engine owns every Job
// exclusively from arrival until its completion is processed; a job is
// referenced by exactly one core slot or held in the waiting list, never
// both.
type Job struct {
	// ID is the caller-assigned, globally unique handle.
	ID int
	// ArrivalTime is the simulated instant the job became schedulable.
	ArrivalTime int
	// Priority is the scheduling priority; lower value ranks higher.
	Priority int
	// ServiceTime is the total CPU time the job needs to finish.
	ServiceTime int

	used      int // CPU time consumed so far; flushed when the job leaves a core
	lastStart int // instant the job most recently began occupying a core
	response  int // recorded at each placement until the job first runs
}

// Remaining returns the CPU time the job still needs.
func (j *Job) Remaining() int {
	return j.ServiceTime - j.used
}

// UsedTime returns the CPU time the job has consumed so far. It only
// advances when the job is taken off a core (preempted, requeued, or
// finished), by the elapsed time since it last started running.
func (j *Job) UsedTime() int {
	return j.used
}

// ResponseTime returns the recorded response time: the delay between the
// job's arrival and the placement it first actually ran from. A placement
// the job was evicted from after zero run time does not count.
func (j *Job) ResponseTime() int {
	return j.response
}
