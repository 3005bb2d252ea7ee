// internal/domain/models/moderation.go
package models

// ModerationStatus gates whether a directory record is publicly visible.
// Only accepted records appear in public listings.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationAccepted ModerationStatus = "accepted"
	ModerationRejected ModerationStatus = "rejected"
)

// Valid reports whether s is one of the known moderation statuses.
func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationPending, ModerationAccepted, ModerationRejected:
		return true
	}
	return false
}

func (s ModerationStatus) Label() string {
	switch s {
	case ModerationPending:
		return "Pending"
	case ModerationAccepted:
		return "Accepted"
	case ModerationRejected:
		return "Rejected"
	}
	return string(s)
}

// RegistrationStatus is the review state of an OrganizationRegistration.
// It is a separate vocabulary from ModerationStatus and the two are never
// compared with each other.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationRejected  RegistrationStatus = "rejected"
	RegistrationNeedsInfo RegistrationStatus = "needs_info"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationNeedsInfo:
		return true
	}
	return false
}

func (s RegistrationStatus) Label() string {
	switch s {
	case RegistrationPending:
		return "Pending Review"
	case RegistrationApproved:
		return "Approved"
	case RegistrationRejected:
		return "Rejected"
	case RegistrationNeedsInfo:
		return "Needs More Information"
	}
	return string(s)
}

// SubmissionStatus is the review state of a CompanySubmission.
type SubmissionStatus string

const (
	SubmissionPending       SubmissionStatus = "pending"
	SubmissionApproved      SubmissionStatus = "approved"
	SubmissionRejected      SubmissionStatus = "rejected"
	SubmissionNeedsRevision SubmissionStatus = "needs_revision"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected, SubmissionNeedsRevision:
		return true
	}
	return false
}

// ContactStatus tracks handling of an inbound contact message.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactResolved   ContactStatus = "resolved"
	ContactClosed     ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResolved, ContactClosed:
		return true
	}
	return false
}
