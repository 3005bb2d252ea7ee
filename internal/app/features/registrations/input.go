package registrations

import (
	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
	"github.com/dealroom-et/dealroom/internal/domain/models"
)

// registrationInput is the submitter-editable payload. Review fields are
// never accepted from clients.
type registrationInput struct {
	OrganizationType    *models.OrganizationType `json:"organization_type"`
	OrganizationName    *string                  `json:"organization_name"`
	Website             *string                  `json:"website"`
	Description         *string                  `json:"description"`
	FoundedYear         *int                     `json:"founded_year"`
	EmployeeCount       *string                  `json:"employee_count"`
	Headquarters        *string                  `json:"headquarters"`
	Country             *string                  `json:"country"`
	FirstName           *string                  `json:"first_name"`
	LastName            *string                  `json:"last_name"`
	Email               *string                  `json:"email"`
	Phone               *string                  `json:"phone"`
	Position            *string                  `json:"position"`
	LinkedInProfile     *string                  `json:"linkedin_profile"`
	Sectors             *[]string                `json:"sectors"`
	FundingStage        *models.FundingStage     `json:"funding_stage"`
	TotalFunding        *float64                 `json:"total_funding"`
	KeyAchievements     *string                  `json:"key_achievements"`
	SubscribeNewsletter *bool                    `json:"subscribe_newsletter"`
}

type textField struct {
	name     string
	dst      *string
	src      *string
	required bool
	max      int
}

func (in registrationInput) apply(reg *models.OrganizationRegistration, creating bool) inputval.Errors {
	errs := inputval.Errors{}

	switch {
	case in.OrganizationType != nil:
		if errs.Required("organization_type", string(*in.OrganizationType)) &&
			errs.Choice("organization_type", string(*in.OrganizationType), in.OrganizationType.Valid()) {
			reg.OrganizationType = *in.OrganizationType
		}
	case creating:
		errs.Add("organization_type", "This field is required.")
	}

	fields := []textField{
		{"organization_name", &reg.OrganizationName, in.OrganizationName, true, 200},
		{"description", &reg.Description, in.Description, true, 0},
		{"employee_count", &reg.EmployeeCount, in.EmployeeCount, false, 20},
		{"headquarters", &reg.Headquarters, in.Headquarters, true, 100},
		{"country", &reg.Country, in.Country, false, 50},
		{"first_name", &reg.FirstName, in.FirstName, true, 100},
		{"last_name", &reg.LastName, in.LastName, true, 100},
		{"phone", &reg.Phone, in.Phone, false, 20},
		{"position", &reg.Position, in.Position, true, 100},
		{"key_achievements", &reg.KeyAchievements, in.KeyAchievements, false, 0},
	}
	for _, f := range fields {
		shared.SetText(f.dst, f.src)
		if f.required && (creating || f.src != nil) && !errs.Required(f.name, *f.dst) {
			continue
		}
		if f.max > 0 {
			errs.MaxLen(f.name, *f.dst, f.max)
		}
	}

	if in.Email != nil {
		e := sanitize.Text(*in.Email)
		if errs.Required("email", e) && errs.Email("email", e) {
			reg.Email = e
		}
	} else if creating {
		errs.Add("email", "This field is required.")
	}
	shared.SetURL(errs, "website", &reg.Website, in.Website)
	shared.SetURL(errs, "linkedin_profile", &reg.LinkedInProfile, in.LinkedInProfile)

	if in.FoundedYear != nil {
		if *in.FoundedYear < 1 || *in.FoundedYear > 9999 {
			errs.Add("founded_year", "Enter a valid year.")
		} else {
			reg.FoundedYear = in.FoundedYear
		}
	}
	if in.Sectors != nil {
		reg.Sectors = sanitize.Strings(*in.Sectors)
	}
	if in.FundingStage != nil && errs.Choice("funding_stage", string(*in.FundingStage), in.FundingStage.Valid()) {
		reg.FundingStage = *in.FundingStage
	}
	if in.TotalFunding != nil {
		if *in.TotalFunding < 0 {
			errs.Add("total_funding", "Ensure this value is greater than or equal to 0.")
		} else {
			reg.TotalFunding = in.TotalFunding
		}
	}
	switch {
	case in.SubscribeNewsletter != nil:
		reg.SubscribeNewsletter = *in.SubscribeNewsletter
	case creating:
		reg.SubscribeNewsletter = true
	}
	return errs
}

// RegistrationView adds display labels to a registration.
type RegistrationView struct {
	models.OrganizationRegistration
	OrganizationTypeDisplay string  `json:"organization_type_display"`
	FundingStageDisplay     *string `json:"funding_stage_display"`
	StatusDisplay           string  `json:"status_display"`
}

func viewOf(reg models.OrganizationRegistration) RegistrationView {
	v := RegistrationView{
		OrganizationRegistration: reg,
		OrganizationTypeDisplay:  reg.OrganizationType.Label(),
		StatusDisplay:            reg.Status.Label(),
	}
	if reg.FundingStage != "" {
		l := reg.FundingStage.Label()
		v.FundingStageDisplay = &l
	}
	return v
}

func viewsOf(regs []models.OrganizationRegistration) []RegistrationView {
	out := make([]RegistrationView, 0, len(regs))
	for _, r := range regs {
		out = append(out, viewOf(r))
	}
	return out
}
