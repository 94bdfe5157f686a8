package model

import "github.com/rotisserie/eris"

// JobRecord is one posting observed on a job board. JobID is opaque and
// assumed unique within its source.
type JobRecord struct {
	JobID        string `json:"job_id"`
	Title        string `json:"title"`
	CompanyName  string `json:"company_name"`
	URL          string `json:"url"`
	WorkingModel string `json:"working_model"`
	Salary       int    `json:"salary"`
	Location     string `json:"location,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Validate rejects records that cannot take part in a reconciliation run.
func (j JobRecord) Validate() error {
	if j.JobID == "" {
		return eris.New("model: job_id is required")
	}
	if j.Salary < 0 {
		return eris.Errorf("model: job %s has negative salary %d", j.JobID, j.Salary)
	}
	return nil
}
