// Package shared holds the request plumbing and JSON representations used by
// several API features.
package shared

import (
	"errors"
	"net/http"

	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/listfilter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ListQuery combines filter and sort with the page requested in r.
func ListQuery(r *http.Request, filter bson.M, sort bson.D) (listfilter.Query, apiutil.PageParams) {
	p := apiutil.ReadPage(r)
	return listfilter.Query{Filter: filter, Sort: sort, Skip: p.Skip(), Limit: p.Size}, p
}

// StoreError writes 404 for a missing document and 500 otherwise.
func StoreError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		apiutil.NotFound(w)
		return
	}
	apiutil.ServerError(w, log, msg, err)
}
