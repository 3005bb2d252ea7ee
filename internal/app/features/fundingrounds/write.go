package fundingrounds

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	fundingroundstore "github.com/dealroom-et/dealroom/internal/app/store/fundingrounds"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type roundInput struct {
	Company            *string           `json:"company"`
	RoundType          *models.RoundType `json:"round_type"`
	AnnouncedDate      *string           `json:"announced_date"`
	MoneyRaisedUSD     *float64          `json:"money_raised_usd"`
	PreMoneyValuation  *float64          `json:"pre_money_valuation_usd"`
	PostMoneyValuation *float64          `json:"post_money_valuation_usd"`
	SourceURL          *string           `json:"source_url"`
	Notes              *string           `json:"notes"`
}

func nonNegative(errs inputval.Errors, field string, dst **float64, src *float64) {
	if src == nil {
		return
	}
	if *src < 0 {
		errs.Add(field, "Ensure this value is greater than or equal to 0.")
		return
	}
	*dst = src
}

func (h *Handler) apply(ctx context.Context, in roundInput, fr *models.FundingRound, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	switch {
	case in.Company != nil:
		id, err := primitive.ObjectIDFromHex(*in.Company)
		if err != nil {
			errs.Add("company", "Invalid pk \""+*in.Company+"\" - object does not exist.")
			break
		}
		if _, err := h.present.Companies.GetByID(ctx, id); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, err
			}
			errs.Add("company", "Invalid pk \""+*in.Company+"\" - object does not exist.")
			break
		}
		fr.CompanyID = id
	case creating:
		errs.Add("company", "This field is required.")
	}

	switch {
	case in.RoundType != nil:
		if errs.Choice("round_type", string(*in.RoundType), in.RoundType.Valid()) {
			fr.RoundType = *in.RoundType
		}
	case creating:
		errs.Add("round_type", "This field is required.")
	}

	switch {
	case in.AnnouncedDate != nil:
		var d *time.Time
		shared.SetDate(errs, "announced_date", &d, in.AnnouncedDate)
		if d != nil {
			fr.AnnouncedDate = *d
		} else if _, bad := errs["announced_date"]; !bad {
			errs.Add("announced_date", "This field may not be null.")
		}
	case creating:
		errs.Add("announced_date", "This field is required.")
	}

	nonNegative(errs, "money_raised_usd", &fr.MoneyRaisedUSD, in.MoneyRaisedUSD)
	nonNegative(errs, "pre_money_valuation_usd", &fr.PreMoneyValuation, in.PreMoneyValuation)
	nonNegative(errs, "post_money_valuation_usd", &fr.PostMoneyValuation, in.PostMoneyValuation)
	shared.SetURL(errs, "source_url", &fr.SourceURL, in.SourceURL)
	shared.SetText(&fr.Notes, in.Notes)
	return errs, nil
}

// Create handles POST /funding-rounds.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in roundInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var fr models.FundingRound
	errs, err := h.apply(ctx, in, &fr, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate funding round failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.rounds.Create(ctx, fr)
	if err != nil {
		apiutil.ServerError(w, h.Log, "create funding round failed", err)
		return
	}
	h.Log.Info("funding round created",
		zap.String("round_id", created.ID.Hex()),
		zap.String("company_id", created.CompanyID.Hex()),
		zap.String("round_type", string(created.RoundType)))
	h.writeView(ctx, w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /funding-rounds/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in roundInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fr, err := h.rounds.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load funding round failed", err)
		return
	}
	errs, err := h.apply(ctx, in, &fr, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate funding round failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.rounds.Update(ctx, id, fr)
	if err != nil {
		shared.StoreError(w, h.Log, "update funding round failed", err)
		return
	}
	h.writeView(ctx, w, http.StatusOK, updated)
}

// Delete handles DELETE /funding-rounds/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.rounds.Delete(ctx, id); err != nil {
		shared.StoreError(w, h.Log, "delete funding round failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "funding_rounds", id.Hex())
	w.WriteHeader(http.StatusNoContent)
}

type participantInput struct {
	Investor          string   `json:"investor"`
	IsLeadInvestor    bool     `json:"is_lead_investor"`
	AmountInvestedUSD *float64 `json:"amount_invested_usd"`
}

// AddParticipant handles POST /funding-rounds/{id}/participants. An investor
// joins a round at most once.
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := apiutil.ObjectID(r, "id")
	if !ok {
		apiutil.NotFound(w)
		return
	}
	var in participantInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fr, err := h.rounds.GetByID(ctx, id)
	if err != nil {
		shared.StoreError(w, h.Log, "load funding round failed", err)
		return
	}

	errs := inputval.Errors{}
	p := models.FundingRoundParticipation{FundingRoundID: fr.ID, IsLeadInvestor: in.IsLeadInvestor}
	if errs.Required("investor", in.Investor) {
		invID, perr := primitive.ObjectIDFromHex(in.Investor)
		_, err := h.present.Investors.GetByID(ctx, invID)
		switch {
		case perr != nil, errors.Is(err, mongo.ErrNoDocuments):
			errs.Add("investor", "Invalid pk \""+in.Investor+"\" - object does not exist.")
		case err != nil:
			apiutil.ServerError(w, h.Log, "load investor failed", err)
			return
		default:
			p.InvestorID = invID
		}
	}
	nonNegative(errs, "amount_invested_usd", &p.AmountInvestedUSD, in.AmountInvestedUSD)
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}

	created, err := h.rounds.AddParticipation(ctx, p)
	if err != nil {
		if errors.Is(err, fundingroundstore.ErrDuplicateParticipation) {
			apiutil.ValidationFailed(w, "Invalid data", inputval.Errors{
				"non_field_errors": {"The fields funding_round, investor must make a unique set."},
			})
			return
		}
		apiutil.ServerError(w, h.Log, "add participation failed", err)
		return
	}
	h.Log.Info("investor joined round",
		zap.String("round_id", fr.ID.Hex()),
		zap.String("investor_id", created.InvestorID.Hex()),
		zap.Bool("lead", created.IsLeadInvestor))
	h.writeView(ctx, w, http.StatusCreated, fr)
}
