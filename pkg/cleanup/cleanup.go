// Package cleanup collects shutdown jobs registered during wiring and
// runs them once the server stops.
package cleanup

import "log"

type Job struct {
	Name string
	F    func() error
}

var (
	jobs []*Job
)

func Register(j *Job) {
	jobs = append(jobs, j)
}

// CleanUp runs jobs in reverse registration order, later wiring is torn
// down first.
func CleanUp() {
	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		log.Printf("cleanup job %s started", j.Name)
		if err := j.F(); err != nil {
			log.Printf("cleanup job %s finished with error: %v", j.Name, err)
			continue
		}
		log.Printf("cleanup job %s finished", j.Name)
	}
}
