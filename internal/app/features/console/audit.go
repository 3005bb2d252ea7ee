package console

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dealroom-et/dealroom/internal/app/store/audit"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const auditPageSize = 50

type auditRow struct {
	When       string
	Category   string
	EventType  string
	Actor      string
	Target     string
	IP         string
	Success    bool
	Reason     string
	DetailText string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type auditVM struct {
	baseVM
	Rows []auditRow

	Category   string
	EventType  string
	Actor      string
	Categories []option
	EventTypes []option

	Page       int
	TotalPages int
	Total      int64
	RangeStart int64
	RangeEnd   int64
	PrevURL    string
	NextURL    string
}

var auditCategories = []option{
	{Value: audit.CategoryAuth, Label: "Authentication"},
	{Value: audit.CategoryAdmin, Label: "Administration"},
}

var auditEventTypes = map[string][]string{
	audit.CategoryAuth: {
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventUserRegistered,
		audit.EventAdminLogin,
	},
	audit.CategoryAdmin: {
		audit.EventRegistrationApproved,
		audit.EventRegistrationRejected,
		audit.EventRegistrationInfoRequested,
		audit.EventPromotionFailed,
		audit.EventModerationChanged,
		audit.EventSubmissionReviewed,
		audit.EventContactResolved,
		audit.EventContactNotesAdded,
		audit.EventRecordDeleted,
	},
}

func eventTypesFor(category string) []string {
	if category != "" {
		return auditEventTypes[category]
	}
	var all []string
	for _, c := range auditCategories {
		all = append(all, auditEventTypes[c.Value]...)
	}
	return all
}

// ServeAudit handles GET /admin/audit: the audit trail, newest first, with
// category, event type and actor filters.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	actor := strings.TrimSpace(q.Get("actor"))
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Actor:     actor,
		Limit:     auditPageSize,
		Offset:    int64((page - 1) * auditPageSize),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	total, err := h.events.Count(ctx, filter)
	if err != nil {
		h.Log.Error("audit count failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := auditVM{
		baseVM:    h.base(r, "Audit log"),
		Category:  category,
		EventType: eventType,
		Actor:     actor,
		Page:      page,
		Total:     total,
		Rows:      make([]auditRow, 0, len(events)),
	}
	for _, c := range auditCategories {
		vm.Categories = append(vm.Categories, option{Value: c.Value, Label: c.Label, Selected: c.Value == category})
	}
	for _, et := range eventTypesFor(category) {
		vm.EventTypes = append(vm.EventTypes, option{Value: et, Label: et, Selected: et == eventType})
	}

	vm.TotalPages = int((total + auditPageSize - 1) / auditPageSize)
	if vm.TotalPages == 0 {
		vm.TotalPages = 1
	}
	if len(events) > 0 {
		vm.RangeStart = filter.Offset + 1
		vm.RangeEnd = filter.Offset + int64(len(events))
	}
	pageURL := func(p int) string {
		v := url.Values{}
		for k, val := range map[string]string{"category": category, "event_type": eventType, "actor": actor} {
			if val != "" {
				v.Set(k, val)
			}
		}
		v.Set("page", strconv.Itoa(p))
		return "/admin/audit?" + v.Encode()
	}
	if page > 1 {
		vm.PrevURL = pageURL(page - 1)
	}
	if page < vm.TotalPages {
		vm.NextURL = pageURL(page + 1)
	}

	for _, e := range events {
		row := auditRow{
			When:      e.Timestamp.UTC().Format(time.RFC3339),
			Category:  e.Category,
			EventType: e.EventType,
			Actor:     e.Actor,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
		}
		if e.TargetID != "" {
			row.Target = e.TargetCollection + "/" + e.TargetID
		}
		row.DetailText = detailText(e.Details)
		vm.Rows = append(vm.Rows, row)
	}
	templates.Render(w, r, "console_audit", vm)
}

// detailText renders details as "k=v" pairs in key order.
func detailText(d map[string]string) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+d[k])
	}
	return strings.Join(parts, " ")
}
