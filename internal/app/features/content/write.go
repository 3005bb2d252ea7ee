package content

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/features/shared"
	contentstore "github.com/dealroom-et/dealroom/internal/app/store/curatedcontent"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/sanitize"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type contentInput struct {
	Title             *string                  `json:"title"`
	Slug              *string                  `json:"slug"`
	Description       *string                  `json:"description"`
	ContentType       *models.ContentType      `json:"content_type"`
	ImageURL          *string                  `json:"image_url"`
	ExternalURL       *string                  `json:"external_url"`
	FileURL           *string                  `json:"file_url"`
	Content           *string                  `json:"content"`
	Featured          *bool                    `json:"featured"`
	Order             *int                     `json:"order"`
	PublishedDate     *string                  `json:"published_date"`
	IndustryIDs       *[]string                `json:"industry_ids"`
	RelatedCompanyIDs *[]string                `json:"related_company_ids"`
	ModerationStatus  *models.ModerationStatus `json:"moderation_status"`
}

func (h *Handler) apply(ctx context.Context, in contentInput, cc *models.CuratedContent, creating bool) (inputval.Errors, error) {
	errs := inputval.Errors{}

	shared.SetText(&cc.Title, in.Title)
	if creating || in.Title != nil {
		if errs.Required("title", cc.Title) {
			errs.MaxLen("title", cc.Title, 255)
		}
	}
	if creating && in.Slug != nil {
		cc.Slug = *in.Slug
	}
	shared.SetText(&cc.Description, in.Description)
	if in.Content != nil {
		cc.Content = sanitize.HTML(*in.Content)
	}
	switch {
	case in.ContentType != nil:
		if errs.Choice("content_type", string(*in.ContentType), in.ContentType.Valid()) {
			cc.ContentType = *in.ContentType
		}
	case creating:
		cc.ContentType = models.ContentArticle
	}
	shared.SetURL(errs, "image_url", &cc.ImageURL, in.ImageURL)
	shared.SetURL(errs, "external_url", &cc.ExternalURL, in.ExternalURL)
	shared.SetURL(errs, "file_url", &cc.FileURL, in.FileURL)
	if in.Featured != nil {
		cc.Featured = *in.Featured
	}
	if in.Order != nil {
		cc.Order = *in.Order
	}
	if in.PublishedDate != nil {
		var d *time.Time
		shared.SetDate(errs, "published_date", &d, in.PublishedDate)
		if d != nil {
			cc.PublishedDate = *d
		}
	}
	if in.ModerationStatus != nil && errs.Choice("moderation_status", string(*in.ModerationStatus), in.ModerationStatus.Valid()) {
		cc.ModerationStatus = *in.ModerationStatus
	}
	if in.IndustryIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "industry_ids", *in.IndustryIDs, h.present.Industries.GetByIDs)
		if err != nil {
			return nil, err
		}
		if ok {
			cc.IndustryIDs = ids
		}
	}
	if in.RelatedCompanyIDs != nil {
		ids, ok, err := shared.ResolveIDs(ctx, errs, "related_company_ids", *in.RelatedCompanyIDs, h.anyCompanies)
		if err != nil {
			return nil, err
		}
		if ok {
			cc.RelatedCompanyIDs = ids
		}
	}
	return errs, nil
}

func (h *Handler) anyCompanies(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	return h.present.Companies.GetByIDs(ctx, ids, "")
}

// Create handles POST /curated-content. A blank slug is derived from the
// title.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in contentInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var cc models.CuratedContent
	errs, err := h.apply(ctx, in, &cc, true)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate content failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	created, err := h.content.Create(ctx, cc)
	if err != nil {
		if errors.Is(err, contentstore.ErrDuplicateSlug) {
			apiutil.ValidationFailed(w, "Invalid data", inputval.Errors{"slug": {"curated content with this slug already exists."}})
			return
		}
		apiutil.ServerError(w, h.Log, "create content failed", err)
		return
	}
	h.Log.Info("content created", zap.String("slug", created.Slug), zap.String("content_type", string(created.ContentType)))
	h.writeView(ctx, w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /curated-content/{slug}. The slug is fixed
// once created.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in contentInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sl := chi.URLParam(r, "slug")
	cc, err := h.content.GetBySlug(ctx, sl, bson.M{})
	if err != nil {
		shared.StoreError(w, h.Log, "load content failed", err)
		return
	}
	before := cc.ModerationStatus

	errs, err := h.apply(ctx, in, &cc, false)
	if err != nil {
		apiutil.ServerError(w, h.Log, "validate content failed", err)
		return
	}
	if errs.HasErrors() {
		apiutil.ValidationFailed(w, "Invalid data", errs)
		return
	}
	updated, err := h.content.Update(ctx, sl, cc)
	if err != nil {
		shared.StoreError(w, h.Log, "update content failed", err)
		return
	}
	if before != updated.ModerationStatus {
		h.Audit.ModerationChanged(ctx, r, "curated_content", updated.ID.Hex(), string(before), string(updated.ModerationStatus))
	}
	h.writeView(ctx, w, http.StatusOK, updated)
}

// Delete handles DELETE /curated-content/{slug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sl := chi.URLParam(r, "slug")
	if err := h.content.Delete(ctx, sl); err != nil {
		shared.StoreError(w, h.Log, "delete content failed", err)
		return
	}
	h.Audit.RecordDeleted(ctx, r, "curated_content", sl)
	w.WriteHeader(http.StatusNoContent)
}
