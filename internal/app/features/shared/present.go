package shared

import (
	"context"
	"time"

	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	fundingroundstore "github.com/dealroom-et/dealroom/internal/app/store/fundingrounds"
	industrystore "github.com/dealroom-et/dealroom/internal/app/store/industries"
	investorstore "github.com/dealroom-et/dealroom/internal/app/store/investors"
	personstore "github.com/dealroom-et/dealroom/internal/app/store/people"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IndustryView is an industry with its accepted-company count.
type IndustryView struct {
	models.Industry
	CompanyCount int64 `json:"company_count"`
}

// CompanyListItem is the compact company shape used in lists and nested
// references.
type CompanyListItem struct {
	ID                    primitive.ObjectID   `json:"id"`
	Name                  string               `json:"name"`
	Slug                  string               `json:"slug"`
	ShortDescription      string               `json:"short_description"`
	Logo                  string               `json:"logo"`
	Status                models.CompanyStatus `json:"status"`
	CompanyType           models.CompanyType   `json:"company_type"`
	HQCountry             string               `json:"hq_country"`
	HQCity                string               `json:"hq_city"`
	FoundedDate           *time.Time           `json:"founded_date"`
	TotalFundingRaisedUSD *float64             `json:"total_funding_raised_usd"`
	TotalFundingDisplay   string               `json:"total_funding_display"`
	EmployeeCountRange    string               `json:"employee_count_range"`
	Industries            []IndustryView       `json:"industries"`
	CreatedAt             time.Time            `json:"created_at"`
}

// CompanyDetail is the full company with its relations expanded.
type CompanyDetail struct {
	models.Company
	Industries          []IndustryView  `json:"industries"`
	Founders            []models.Person `json:"founders"`
	KeyPeople           []models.Person `json:"key_people"`
	FundingRounds       []RoundView     `json:"funding_rounds"`
	TotalFundingDisplay string          `json:"total_funding_display"`
}

// InvestorView adds portfolio figures to an investor.
type InvestorView struct {
	models.Investor
	IndustriesFocus  []IndustryView `json:"industries_focus"`
	PortfolioCount   int            `json:"portfolio_count"`
	TotalInvestments int64          `json:"total_investments"`
}

// ParticipationView replaces the investor id with the investor.
type ParticipationView struct {
	models.FundingRoundParticipation
	Investor InvestorView `json:"investor"`
}

// RoundView replaces the company id with the company and lists investors.
type RoundView struct {
	models.FundingRound
	Company            *CompanyListItem    `json:"company"`
	Investors          []ParticipationView `json:"investors"`
	MoneyRaisedDisplay string              `json:"money_raised_display"`
}

// ContentView expands a curated content item's relations.
type ContentView struct {
	models.CuratedContent
	Industries         []IndustryView    `json:"industries"`
	RelatedCompanies   []CompanyListItem `json:"related_companies"`
	ContentTypeDisplay string            `json:"content_type_display"`
}

// Presenter builds the API representations, batching lookups per call.
type Presenter struct {
	Companies  *companystore.Store
	Industries *industrystore.Store
	People     *personstore.Store
	Investors  *investorstore.Store
	Rounds     *fundingroundstore.Store
}

func NewPresenter(db *mongo.Database) *Presenter {
	return &Presenter{
		Companies:  companystore.New(db),
		Industries: industrystore.New(db),
		People:     personstore.New(db),
		Investors:  investorstore.New(db),
		Rounds:     fundingroundstore.New(db),
	}
}

// IndustryViews attaches accepted-company counts to inds.
func (p *Presenter) IndustryViews(ctx context.Context, inds []models.Industry) ([]IndustryView, error) {
	out := make([]IndustryView, 0, len(inds))
	if len(inds) == 0 {
		return out, nil
	}
	ids := make([]primitive.ObjectID, len(inds))
	for i, ind := range inds {
		ids[i] = ind.ID
	}
	counts, err := p.Companies.CountByIndustry(ctx, ids, models.ModerationAccepted)
	if err != nil {
		return nil, err
	}
	for _, ind := range inds {
		out = append(out, IndustryView{Industry: ind, CompanyCount: counts[ind.ID]})
	}
	return out, nil
}

func (p *Presenter) industryIndex(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]IndustryView, error) {
	idx := map[primitive.ObjectID]IndustryView{}
	if len(ids) == 0 {
		return idx, nil
	}
	inds, err := p.Industries.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views, err := p.IndustryViews(ctx, inds)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		idx[v.ID] = v
	}
	return idx, nil
}

func pick(idx map[primitive.ObjectID]IndustryView, ids []primitive.ObjectID) []IndustryView {
	out := make([]IndustryView, 0, len(ids))
	for _, id := range ids {
		if v, ok := idx[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func uniqueIDs(groups ...[]primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	var out []primitive.ObjectID
	for _, g := range groups {
		for _, id := range g {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func listItem(c models.Company, inds []IndustryView) CompanyListItem {
	return CompanyListItem{
		ID:                    c.ID,
		Name:                  c.Name,
		Slug:                  c.Slug,
		ShortDescription:      c.ShortDescription,
		Logo:                  c.LogoURL,
		Status:                c.Status,
		CompanyType:           c.CompanyType,
		HQCountry:             c.HQCountry,
		HQCity:                c.HQCity,
		FoundedDate:           c.FoundedDate,
		TotalFundingRaisedUSD: c.TotalFundingRaisedUSD,
		TotalFundingDisplay:   models.FormatUSD(c.TotalFundingRaisedUSD),
		EmployeeCountRange:    c.EmployeeCountRange,
		Industries:            inds,
		CreatedAt:             c.CreatedAt,
	}
}

// CompanyList renders companies in the compact list shape.
func (p *Presenter) CompanyList(ctx context.Context, cs []models.Company) ([]CompanyListItem, error) {
	out := make([]CompanyListItem, 0, len(cs))
	var all [][]primitive.ObjectID
	for _, c := range cs {
		all = append(all, c.IndustryIDs)
	}
	idx, err := p.industryIndex(ctx, uniqueIDs(all...))
	if err != nil {
		return nil, err
	}
	for _, c := range cs {
		out = append(out, listItem(c, pick(idx, c.IndustryIDs)))
	}
	return out, nil
}

// CompanyDetail expands industries, people and the five newest rounds.
func (p *Presenter) CompanyDetail(ctx context.Context, c models.Company) (CompanyDetail, error) {
	idx, err := p.industryIndex(ctx, c.IndustryIDs)
	if err != nil {
		return CompanyDetail{}, err
	}
	people, err := p.People.GetByIDs(ctx, uniqueIDs(c.FounderIDs, c.KeyPeopleIDs))
	if err != nil {
		return CompanyDetail{}, err
	}
	byID := make(map[primitive.ObjectID]models.Person, len(people))
	for _, pr := range people {
		byID[pr.ID] = pr
	}
	rounds, err := p.Rounds.ByCompany(ctx, c.ID, 5)
	if err != nil {
		return CompanyDetail{}, err
	}
	roundViews, err := p.RoundViews(ctx, rounds)
	if err != nil {
		return CompanyDetail{}, err
	}
	return CompanyDetail{
		Company:             c,
		Industries:          pick(idx, c.IndustryIDs),
		Founders:            peopleIn(byID, c.FounderIDs),
		KeyPeople:           peopleIn(byID, c.KeyPeopleIDs),
		FundingRounds:       roundViews,
		TotalFundingDisplay: models.FormatUSD(c.TotalFundingRaisedUSD),
	}, nil
}

func peopleIn(byID map[primitive.ObjectID]models.Person, ids []primitive.ObjectID) []models.Person {
	out := make([]models.Person, 0, len(ids))
	for _, id := range ids {
		if pr, ok := byID[id]; ok {
			out = append(out, pr)
		}
	}
	return out
}

// InvestorViews attaches focus industries and portfolio figures.
func (p *Presenter) InvestorViews(ctx context.Context, invs []models.Investor) ([]InvestorView, error) {
	out := make([]InvestorView, 0, len(invs))
	var all [][]primitive.ObjectID
	for _, inv := range invs {
		all = append(all, inv.IndustryFocusIDs)
	}
	idx, err := p.industryIndex(ctx, uniqueIDs(all...))
	if err != nil {
		return nil, err
	}
	for _, inv := range invs {
		portfolio, err := p.Portfolio(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		total, err := p.Rounds.CountForInvestor(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, InvestorView{
			Investor:         inv,
			IndustriesFocus:  pick(idx, inv.IndustryFocusIDs),
			PortfolioCount:   len(portfolio),
			TotalInvestments: total,
		})
	}
	return out, nil
}

// Portfolio lists the distinct accepted companies the investor funded.
func (p *Presenter) Portfolio(ctx context.Context, investorID primitive.ObjectID) ([]models.Company, error) {
	ids, err := p.Rounds.PortfolioCompanyIDs(ctx, investorID)
	if err != nil {
		return nil, err
	}
	return p.Companies.GetByIDs(ctx, ids, models.ModerationAccepted)
}

// RoundViews expands each round's company and participating investors.
func (p *Presenter) RoundViews(ctx context.Context, rounds []models.FundingRound) ([]RoundView, error) {
	out := make([]RoundView, 0, len(rounds))
	if len(rounds) == 0 {
		return out, nil
	}
	roundIDs := make([]primitive.ObjectID, len(rounds))
	companyIDs := make([]primitive.ObjectID, len(rounds))
	for i, fr := range rounds {
		roundIDs[i] = fr.ID
		companyIDs[i] = fr.CompanyID
	}

	companies, err := p.Companies.GetByIDs(ctx, uniqueIDs(companyIDs), "")
	if err != nil {
		return nil, err
	}
	items, err := p.CompanyList(ctx, companies)
	if err != nil {
		return nil, err
	}
	companyByID := make(map[primitive.ObjectID]CompanyListItem, len(items))
	for _, it := range items {
		companyByID[it.ID] = it
	}

	parts, err := p.Rounds.Participations(ctx, roundIDs)
	if err != nil {
		return nil, err
	}
	investorIDs := make([]primitive.ObjectID, 0, len(parts))
	for _, pt := range parts {
		investorIDs = append(investorIDs, pt.InvestorID)
	}
	invMap, err := p.Investors.GetByIDs(ctx, uniqueIDs(investorIDs))
	if err != nil {
		return nil, err
	}
	invs := make([]models.Investor, 0, len(invMap))
	for _, inv := range invMap {
		invs = append(invs, inv)
	}
	invViews, err := p.InvestorViews(ctx, invs)
	if err != nil {
		return nil, err
	}
	invByID := make(map[primitive.ObjectID]InvestorView, len(invViews))
	for _, v := range invViews {
		invByID[v.ID] = v
	}
	partsByRound := map[primitive.ObjectID][]ParticipationView{}
	for _, pt := range parts {
		inv, ok := invByID[pt.InvestorID]
		if !ok {
			continue
		}
		partsByRound[pt.FundingRoundID] = append(partsByRound[pt.FundingRoundID], ParticipationView{FundingRoundParticipation: pt, Investor: inv})
	}

	for _, fr := range rounds {
		v := RoundView{
			FundingRound:       fr,
			Investors:          partsByRound[fr.ID],
			MoneyRaisedDisplay: models.FormatUSD(fr.MoneyRaisedUSD),
		}
		if v.Investors == nil {
			v.Investors = []ParticipationView{}
		}
		if c, ok := companyByID[fr.CompanyID]; ok {
			v.Company = &c
		}
		out = append(out, v)
	}
	return out, nil
}

// ContentViews expands industries and related companies.
func (p *Presenter) ContentViews(ctx context.Context, items []models.CuratedContent) ([]ContentView, error) {
	out := make([]ContentView, 0, len(items))
	var inds, cos [][]primitive.ObjectID
	for _, it := range items {
		inds = append(inds, it.IndustryIDs)
		cos = append(cos, it.RelatedCompanyIDs)
	}
	idx, err := p.industryIndex(ctx, uniqueIDs(inds...))
	if err != nil {
		return nil, err
	}
	companies, err := p.Companies.GetByIDs(ctx, uniqueIDs(cos...), "")
	if err != nil {
		return nil, err
	}
	listed, err := p.CompanyList(ctx, companies)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]CompanyListItem, len(listed))
	for _, c := range listed {
		byID[c.ID] = c
	}
	for _, it := range items {
		related := make([]CompanyListItem, 0, len(it.RelatedCompanyIDs))
		for _, id := range it.RelatedCompanyIDs {
			if c, ok := byID[id]; ok {
				related = append(related, c)
			}
		}
		out = append(out, ContentView{
			CuratedContent:     it,
			Industries:         pick(idx, it.IndustryIDs),
			RelatedCompanies:   related,
			ContentTypeDisplay: it.ContentType.Label(),
		})
	}
	return out, nil
}
