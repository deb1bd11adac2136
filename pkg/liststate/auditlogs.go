package liststate

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/devconsole/liststate/pkg/urlparam"
)

// Audit log query keys.
const (
	KeyFrom  = "from"
	KeyTo    = "to"
	KeyActor = "actor"
	KeyType  = "type"
)

// DateLayout is the URL encoding of audit log date bounds.
const DateLayout = "2006-01-02"

// AuditLogFilters are the filters of the audit log list.
// From and To are UTC midnights; the zero time means unbounded.
type AuditLogFilters struct {
	From  time.Time
	To    time.Time
	Actor string
	Type  string
}

// Kind implements Filters.
func (AuditLogFilters) Kind() Kind { return AuditLogs }
func (AuditLogFilters) sealed()    {}

type auditLogsJSON struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Actor string `json:"actor,omitempty"`
	Type  string `json:"type,omitempty"`
}

// MarshalJSON encodes the bounds as dates and omits unset fields.
func (f AuditLogFilters) MarshalJSON() ([]byte, error) {
	return json.Marshal(auditLogsJSON{
		From:  formatDate(f.From),
		To:    formatDate(f.To),
		Actor: f.Actor,
		Type:  f.Type,
	})
}

// UnmarshalJSON accepts dates in DateLayout or RFC 3339.
// Unparsable dates are left unset.
func (f *AuditLogFilters) UnmarshalJSON(data []byte) error {
	var raw auditLogsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = AuditLogFilters{
		From:  parseDate(raw.From),
		To:    parseDate(raw.To),
		Actor: raw.Actor,
		Type:  raw.Type,
	}
	return nil
}

// Day returns the UTC midnight of t's calendar day in t's location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t)
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Day(t).Format(DateLayout)
}

type auditLogsProcessor struct{}

func (auditLogsProcessor) Kind() Kind { return AuditLogs }

func (auditLogsProcessor) Keys() []string {
	return []string{KeyFrom, KeyTo, KeyActor, KeyType}
}

func (auditLogsProcessor) Parse(params url.Values, _ Extras) Filters {
	return AuditLogFilters{
		From:  parseDate(urlparam.String(params, KeyFrom)),
		To:    parseDate(urlparam.String(params, KeyTo)),
		Actor: urlparam.String(params, KeyActor),
		Type:  urlparam.String(params, KeyType),
	}
}

func (auditLogsProcessor) Format(filters Filters, _ Extras) string {
	f, ok := filters.(AuditLogFilters)
	if !ok {
		return ""
	}
	var q urlparam.Query
	q.Add(KeyFrom, formatDate(f.From))
	q.Add(KeyTo, formatDate(f.To))
	q.Add(KeyActor, f.Actor)
	q.Add(KeyType, f.Type)
	return q.Encode()
}

func (auditLogsProcessor) Locate(ListState, Extras) (string, bool) { return keepPath() }
