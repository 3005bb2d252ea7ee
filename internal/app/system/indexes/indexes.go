// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec is the desired index set for one collection.
type Spec struct {
	Collection string
	Models     []mongo.IndexModel
}

// All returns every index the application relies on. Unique indexes here are
// the concurrency safety net for names, slugs and emails.
func All() []Spec {
	specs := []Spec{
		{"companies", []mongo.IndexModel{
			unique("uniq_companies_name", bson.D{{Key: "name", Value: 1}}),
			unique("uniq_companies_slug", bson.D{{Key: "slug", Value: 1}}),
			plain("idx_companies_mod_created", bson.D{{Key: "moderation_status", Value: 1}, {Key: "created_at", Value: -1}}),
			plain("idx_companies_name_ci", bson.D{{Key: "name_ci", Value: 1}}),
			plain("idx_companies_industries", bson.D{{Key: "industry_ids", Value: 1}}),
			plain("idx_companies_country", bson.D{{Key: "hq_country", Value: 1}}),
		}},
		{"industries", []mongo.IndexModel{
			unique("uniq_industries_name", bson.D{{Key: "name", Value: 1}}),
			unique("uniq_industries_slug", bson.D{{Key: "slug", Value: 1}}),
			plain("idx_industries_parent", bson.D{{Key: "parent_id", Value: 1}}),
		}},
		{"people", []mongo.IndexModel{
			unique("uniq_people_slug", bson.D{{Key: "slug", Value: 1}}),
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_people_email").SetUnique(true).
					SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
			},
		}},
		{"investors", []mongo.IndexModel{
			unique("uniq_investors_name", bson.D{{Key: "name", Value: 1}}),
			unique("uniq_investors_slug", bson.D{{Key: "slug", Value: 1}}),
		}},
		{"funding_rounds", []mongo.IndexModel{
			plain("idx_rounds_company_date", bson.D{{Key: "company_id", Value: 1}, {Key: "announced_date", Value: -1}}),
			plain("idx_rounds_date", bson.D{{Key: "announced_date", Value: -1}}),
		}},
		{"funding_round_participations", []mongo.IndexModel{
			unique("uniq_participation_round_investor", bson.D{{Key: "funding_round_id", Value: 1}, {Key: "investor_id", Value: 1}}),
			plain("idx_participation_investor", bson.D{{Key: "investor_id", Value: 1}}),
		}},
		{"curated_content", []mongo.IndexModel{
			unique("uniq_content_slug", bson.D{{Key: "slug", Value: 1}}),
			plain("idx_content_type_order", bson.D{{Key: "content_type", Value: 1}, {Key: "order", Value: 1}, {Key: "published_date", Value: -1}}),
		}},
		{"organization_registrations", []mongo.IndexModel{
			unique("uniq_orgreg_email", bson.D{{Key: "email", Value: 1}}),
			unique("uniq_orgreg_name_ci", bson.D{{Key: "organization_name_ci", Value: 1}}),
			plain("idx_orgreg_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"ecosystem_builder_registrations", []mongo.IndexModel{
			plain("idx_ecoreg_submitted", bson.D{{Key: "submitted_at", Value: -1}}),
		}},
		{"company_submissions", []mongo.IndexModel{
			unique("uniq_submissions_slug", bson.D{{Key: "slug", Value: 1}}),
			plain("idx_submissions_status", bson.D{{Key: "moderation_status", Value: 1}, {Key: "submitted_at", Value: -1}}),
		}},
		{"contacts", []mongo.IndexModel{
			plain("idx_contacts_status_created", bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"users", []mongo.IndexModel{
			unique("uniq_users_username_ci", bson.D{{Key: "username_ci", Value: 1}}),
			unique("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
		}},
		{"audit_events", []mongo.IndexModel{
			plain("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
			plain("idx_audit_category_ts", bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
	for _, k := range models.SupportOrgKinds {
		specs = append(specs, Spec{k.Collection(), []mongo.IndexModel{
			plain("idx_"+k.Collection()+"_mod_name", bson.D{{Key: "moderation_status", Value: 1}, {Key: "name", Value: 1}}),
		}})
	}
	return specs
}

/*
EnsureAll is called at startup. Creating an index that already exists with
the same name and options is a no-op in MongoDB, so this is idempotent.
Problems are collected so one bad collection does not hide the others.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string
	for _, s := range All() {
		if err := ensureSet(ctx, db.Collection(s.Collection), s.Models, log); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel, log *zap.Logger) error {
	var errs []string
	for _, m := range want {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflict(err) {
				// Same keys under another name or with other options; leave it for an operator.
				log.Warn("index exists with different options",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(err))
				continue
			}
			log.Error("create index failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.Error(err))
			errs = append(errs, name+": "+err.Error())
			continue
		}
		log.Debug("index ensured", zap.String("collection", coll.Name()), zap.String("name", name))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isOptionsConflict(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 85 || ce.Code == 86) { // IndexOptionsConflict, IndexKeySpecsConflict
		return true
	}
	s := err.Error()
	return strings.Contains(s, "IndexOptionsConflict") || strings.Contains(s, "IndexKeySpecsConflict")
}

func unique(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

func plain(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}
