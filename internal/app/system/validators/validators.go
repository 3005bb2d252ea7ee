// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the application writes, paired with its
// JSON-Schema validator (nil for none). Each status field is pinned to its own
// vocabulary so the four review enums cannot drift into one another.
func Collections() map[string]bson.M {
	moderation := enum(models.ModerationPending, models.ModerationAccepted, models.ModerationRejected)

	cols := map[string]bson.M{
		"companies": schema([]string{"name", "slug", "company_type", "status", "moderation_status"}, bson.M{
			"name":              nonBlank(),
			"slug":              nonBlank(),
			"moderation_status": moderation,
			"industry_ids":      bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			"founder_ids":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
		}),
		"industries": schema([]string{"name", "slug", "moderation_status"}, bson.M{
			"name":              nonBlank(),
			"moderation_status": moderation,
		}),
		"people": schema([]string{"full_name", "slug", "moderation_status"}, bson.M{
			"full_name":         nonBlank(),
			"email":             bson.M{"bsonType": "string"},
			"moderation_status": moderation,
		}),
		"investors": schema([]string{"name", "slug", "moderation_status"}, bson.M{
			"name":              nonBlank(),
			"moderation_status": moderation,
		}),
		"funding_rounds": schema([]string{"company_id", "round_type", "announced_date"}, bson.M{
			"company_id":     bson.M{"bsonType": "objectId"},
			"announced_date": bson.M{"bsonType": "date"},
		}),
		"funding_round_participations": schema([]string{"funding_round_id", "investor_id"}, bson.M{
			"funding_round_id": bson.M{"bsonType": "objectId"},
			"investor_id":      bson.M{"bsonType": "objectId"},
		}),
		"curated_content": schema([]string{"title", "slug", "content_type", "moderation_status"}, bson.M{
			"content_type":      enum(models.ContentTypes...),
			"moderation_status": moderation,
		}),
		"organization_registrations": schema([]string{"organization_name", "email", "status"}, bson.M{
			"organization_name": nonBlank(),
			"status": enum(models.RegistrationPending, models.RegistrationApproved,
				models.RegistrationRejected, models.RegistrationNeedsInfo),
		}),
		"company_submissions": schema([]string{"name", "slug", "moderation_status"}, bson.M{
			"moderation_status": enum(models.SubmissionPending, models.SubmissionApproved,
				models.SubmissionRejected, models.SubmissionNeedsRevision),
		}),
		"contacts": schema([]string{"name", "email", "message", "status"}, bson.M{
			"status": enum(models.ContactNew, models.ContactInProgress, models.ContactResolved, models.ContactClosed),
		}),
		"ecosystem_builder_registrations": schema([]string{"org_name", "email", "moderation_status"}, bson.M{
			"moderation_status": moderation,
		}),
		"users": schema([]string{"username", "username_ci", "password_hash"}, bson.M{
			"username": nonBlank(),
		}),
		"audit_events": nil,
	}
	for _, k := range models.SupportOrgKinds {
		cols[k.Collection()] = schema([]string{"name", "moderation_status"}, bson.M{
			"name":              nonBlank(),
			"moderation_status": moderation,
		})
	}
	return cols
}

// EnsureAll creates missing collections and attaches validators. Collections
// must exist before the first transaction touches them. Servers without
// collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	existing := map[string]bool{}
	if names, err := db.ListCollectionNames(ctx, bson.M{}); err == nil {
		for _, n := range names {
			existing[n] = true
		}
	}

	var problems []string
	for name, validator := range Collections() {
		if !existing[name] {
			if err := db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
				problems = append(problems, name+": "+err.Error())
				continue
			}
			log.Info("created collection", zap.String("collection", name))
		}
		if validator == nil {
			continue
		}
		cmd := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "moderate"},
			{Key: "validationAction", Value: "error"},
		}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			if isUnsupported(err) {
				log.Info("validator skipped (unsupported)", zap.String("collection", name))
				continue
			}
			problems = append(problems, name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func schema(required []string, props bson.M) bson.M {
	req := bson.A{}
	for _, r := range required {
		req = append(req, r)
	}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   req,
		"properties": props,
	}}
}

func enum[T ~string](vals ...T) bson.M {
	a := bson.A{}
	for _, v := range vals {
		a = append(a, string(v))
	}
	return bson.M{"enum": a}
}

func nonBlank() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") || strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}
