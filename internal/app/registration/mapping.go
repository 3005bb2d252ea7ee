package registration

import (
	"time"

	"github.com/dealroom-et/dealroom/internal/domain/models"
)

// CompanyTypeFor maps a registration's organization type onto the coarser
// company taxonomy. Unknown types map to Startup.
func CompanyTypeFor(t models.OrganizationType) models.CompanyType {
	switch t {
	case models.OrgStartup, models.OrgScaleup:
		return models.CompanyStartup
	case models.OrgVC, models.OrgAngel, models.OrgAccelerator, models.OrgIncubator,
		models.OrgHub, models.OrgUniversity, models.OrgCorporate, models.OrgServiceProvider:
		return models.CompanyCorporation
	case models.OrgGovernment:
		return models.CompanyGovernment
	case models.OrgNGO:
		return models.CompanyNonProfit
	default:
		return models.CompanyStartup
	}
}

// LastFundingStageFor maps a funding stage to the company's display stage.
// not_applicable and unknown stages map to "".
func LastFundingStageFor(s models.FundingStage) string {
	switch s {
	case models.StagePreSeed:
		return "Pre-seed"
	case models.StageSeed:
		return "Seed"
	case models.StageSeriesA:
		return "Series A"
	case models.StageSeriesB:
		return "Series B"
	case models.StageSeriesCPlus:
		return "Series C+"
	case models.StageGrowth:
		return "Growth"
	case models.StageIPO:
		return "IPO"
	default:
		return ""
	}
}

// FoundedDate is January 1 of year, or nil.
func FoundedDate(year *int) *time.Time {
	if year == nil || *year <= 0 {
		return nil
	}
	d := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

// CompanyFrom maps the registration onto a new accepted, operating company.
// Relations are resolved separately.
func CompanyFrom(reg models.OrganizationRegistration) models.Company {
	return models.Company{
		Name:                  reg.OrganizationName,
		Description:           reg.Description,
		Website:               reg.Website,
		HQCity:                reg.Headquarters,
		HQCountry:             reg.Country,
		ContactEmail:          reg.Email,
		PhoneNumber:           reg.Phone,
		FoundedDate:           FoundedDate(reg.FoundedYear),
		CompanyType:           CompanyTypeFor(reg.OrganizationType),
		Status:                models.CompanyOperating,
		EmployeeCountRange:    reg.EmployeeCount,
		TotalFundingRaisedUSD: reg.TotalFunding,
		LastFundingStage:      LastFundingStageFor(reg.FundingStage),
		LinkedInURL:           reg.LinkedInProfile,
		ModerationStatus:      models.ModerationAccepted,
	}
}

// FounderFrom builds the accepted founder profile for the submitter.
func FounderFrom(reg models.OrganizationRegistration) models.Person {
	return models.Person{
		FullName:         reg.FullName(),
		LinkedInURL:      reg.LinkedInProfile,
		Bio:              reg.Position + " at " + reg.OrganizationName,
		ModerationStatus: models.ModerationAccepted,
	}
}
