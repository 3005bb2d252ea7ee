package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FundingRound belongs to exactly one company.
type FundingRound struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	CompanyID          primitive.ObjectID `bson:"company_id" json:"company"`
	RoundType          RoundType          `bson:"round_type" json:"round_type"`
	AnnouncedDate      time.Time          `bson:"announced_date" json:"announced_date"`
	MoneyRaisedUSD     *float64           `bson:"money_raised_usd,omitempty" json:"money_raised_usd"`
	PreMoneyValuation  *float64           `bson:"pre_money_valuation_usd,omitempty" json:"pre_money_valuation_usd"`
	PostMoneyValuation *float64           `bson:"post_money_valuation_usd,omitempty" json:"post_money_valuation_usd"`
	SourceURL          string             `bson:"source_url,omitempty" json:"source_url"`
	Notes              string             `bson:"notes,omitempty" json:"notes"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// FundingRoundParticipation joins an investor to a round. The pair
// (FundingRoundID, InvestorID) is unique.
type FundingRoundParticipation struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	FundingRoundID    primitive.ObjectID `bson:"funding_round_id" json:"funding_round"`
	InvestorID        primitive.ObjectID `bson:"investor_id" json:"investor"`
	IsLeadInvestor    bool               `bson:"is_lead_investor" json:"is_lead_investor"`
	AmountInvestedUSD *float64           `bson:"amount_invested_usd,omitempty" json:"amount_invested_usd"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}
