package models

import "strings"

// CompanyType classifies a Company in the directory.
type CompanyType string

const (
	CompanyStartup     CompanyType = "Startup"
	CompanySME         CompanyType = "SME"
	CompanyCorporation CompanyType = "Corporation"
	CompanyNonProfit   CompanyType = "Non-profit"
	CompanyGovernment  CompanyType = "Government"
)

func (t CompanyType) Valid() bool {
	switch t {
	case CompanyStartup, CompanySME, CompanyCorporation, CompanyNonProfit, CompanyGovernment:
		return true
	}
	return false
}

// CompanyStatus is the operating state of a Company.
type CompanyStatus string

const (
	CompanyOperating CompanyStatus = "Operating"
	CompanyStealth   CompanyStatus = "Stealth"
	CompanyPreLaunch CompanyStatus = "Pre-launch"
	CompanyAcquired  CompanyStatus = "Acquired"
	CompanyClosed    CompanyStatus = "Closed"
)

func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyOperating, CompanyStealth, CompanyPreLaunch, CompanyAcquired, CompanyClosed:
		return true
	}
	return false
}

// OrganizationType is the self-declared type on a signup form.
type OrganizationType string

const (
	OrgStartup         OrganizationType = "startup"
	OrgScaleup         OrganizationType = "scaleup"
	OrgVC              OrganizationType = "vc"
	OrgAngel           OrganizationType = "angel"
	OrgAccelerator     OrganizationType = "accelerator"
	OrgIncubator       OrganizationType = "incubator"
	OrgHub             OrganizationType = "hub"
	OrgUniversity      OrganizationType = "university"
	OrgCorporate       OrganizationType = "corporate"
	OrgGovernment      OrganizationType = "government"
	OrgNGO             OrganizationType = "ngo"
	OrgServiceProvider OrganizationType = "service_provider"
)

var organizationTypeLabels = map[OrganizationType]string{
	OrgStartup:         "Startup",
	OrgScaleup:         "Scaleup",
	OrgVC:              "Venture Capital",
	OrgAngel:           "Angel Investor",
	OrgAccelerator:     "Accelerator",
	OrgIncubator:       "Incubator",
	OrgHub:             "Innovation Hub",
	OrgUniversity:      "University",
	OrgCorporate:       "Corporate",
	OrgGovernment:      "Government Body",
	OrgNGO:             "NGO/Non-Profit",
	OrgServiceProvider: "Service Provider",
}

func (t OrganizationType) Valid() bool {
	_, ok := organizationTypeLabels[t]
	return ok
}

func (t OrganizationType) Label() string {
	if l, ok := organizationTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// FundingStage is the funding stage declared on a signup form.
type FundingStage string

const (
	StagePreSeed       FundingStage = "pre_seed"
	StageSeed          FundingStage = "seed"
	StageSeriesA       FundingStage = "series_a"
	StageSeriesB       FundingStage = "series_b"
	StageSeriesCPlus   FundingStage = "series_c_plus"
	StageGrowth        FundingStage = "growth"
	StageIPO           FundingStage = "ipo"
	StageNotApplicable FundingStage = "not_applicable"
)

var fundingStageLabels = map[FundingStage]string{
	StagePreSeed:       "Pre-seed",
	StageSeed:          "Seed",
	StageSeriesA:       "Series A",
	StageSeriesB:       "Series B",
	StageSeriesCPlus:   "Series C+",
	StageGrowth:        "Growth",
	StageIPO:           "IPO",
	StageNotApplicable: "Not applicable",
}

func (s FundingStage) Valid() bool {
	_, ok := fundingStageLabels[s]
	return ok
}

func (s FundingStage) Label() string {
	if l, ok := fundingStageLabels[s]; ok {
		return l
	}
	return string(s)
}

// RoundType names a funding round.
type RoundType string

var roundTypeLabels = map[RoundType]string{
	"Seed":                "Seed",
	"Pre-Seed":            "Pre-Seed",
	"Series A":            "Series A",
	"Series B":            "Series B",
	"Series C":            "Series C",
	"Series D+":           "Series D+",
	"Grant":               "Grant",
	"Debt":                "Debt Financing",
	"Equity Crowdfunding": "Equity Crowdfunding",
	"ICO":                 "Initial Coin Offering",
	"IPO":                 "Initial Public Offering",
	"Angel":               "Angel Round",
	"Venture":             "Venture Round - Unspecified Series",
	"Undisclosed":         "Undisclosed",
	"Other":               "Other",
}

func (t RoundType) Valid() bool {
	_, ok := roundTypeLabels[t]
	return ok
}

func (t RoundType) Label() string {
	if l, ok := roundTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// InvestorType classifies an Investor.
type InvestorType string

var investorTypeLabels = map[InvestorType]string{
	"VC":           "Venture Capital",
	"Angel":        "Angel Investor",
	"PE":           "Private Equity",
	"Corporate":    "Corporate Venture Arm",
	"Accelerator":  "Accelerator/Incubator",
	"Government":   "Government Fund",
	"FamilyOffice": "Family Office",
	"Other":        "Other",
}

func (t InvestorType) Valid() bool {
	_, ok := investorTypeLabels[t]
	return ok
}

// ContentType classifies a CuratedContent item.
type ContentType string

const (
	ContentArticle  ContentType = "article"
	ContentReport   ContentType = "report"
	ContentGuide    ContentType = "guide"
	ContentResource ContentType = "resource"
	ContentNews     ContentType = "news"
	ContentOther    ContentType = "other"
)

// ContentTypes lists every content type in display order.
var ContentTypes = []ContentType{ContentArticle, ContentReport, ContentGuide, ContentResource, ContentNews, ContentOther}

func (t ContentType) Valid() bool {
	for _, c := range ContentTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Label is the capitalised display name ("Article").
func (t ContentType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

func (t InvestorType) Label() string {
	if l, ok := investorTypeLabels[t]; ok {
		return l
	}
	return string(t)
}
