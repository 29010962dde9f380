package jobs

type JobType string

const (
	JobWelcomeEmail JobType = "email.welcome"
)

// check to see if the job type is a known constant

func (t JobType) IsValid() bool {
	switch t {
	case JobWelcomeEmail:
		return true
	default:
		return false
	}
}
