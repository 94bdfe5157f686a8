package model

// Row is one job joined with its matching company, if any. Rows are derived
// per run and never persisted.
type Row struct {
	JobRecord

	MatchedCompany    string   `json:"matched_company,omitempty"`
	Rating            *float64 `json:"rating"`
	RatingUnavailable bool     `json:"rating_unavailable,omitempty"`
	ReviewCount       *int     `json:"review_count,omitempty"`
	CompanyLocation   string   `json:"company_location,omitempty"`
	CompanyURL        string   `json:"company_url,omitempty"`
}

// Matched reports whether the join found a company for the job.
func (r Row) Matched() bool {
	return r.MatchedCompany != ""
}

// NewRow builds a row for job. A nil company leaves the rating fields unset.
func NewRow(job JobRecord, company *CompanyRecord) Row {
	row := Row{JobRecord: job}
	if company == nil {
		return row
	}
	row.MatchedCompany = company.Name
	row.Rating = company.Rating
	row.RatingUnavailable = company.RatingUnavailable
	row.ReviewCount = company.ReviewCount
	row.CompanyLocation = company.Location
	row.CompanyURL = company.SourceURL
	return row
}
