package liststate

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/router"
)

func TestDecodeStateRoundTripsMarshal(t *testing.T) {
	states := map[Kind]ListState{
		Devices: {
			PageState: PageState{Page: 2, PerPage: 20, Sort: Sort{Key: "name", Direction: Asc}},
			Total:     131,
			Filters: DeviceFilters{
				Group:      "eu",
				Attributes: []FilterPredicate{{Scope: "inventory", Attribute: "os", Type: "$eq", Value: "linux"}},
				Selection:  []string{"b", "a"},
			},
		},
		AuditLogs: {
			PageState: DefaultPageState(20),
			Filters:   AuditLogFilters{From: date(2024, 1, 2), Actor: "ops"},
		},
		Generic: {
			PageState: DefaultPageState(20),
			Filters:   GenericFilters{Params: url.Values{"tab": {"x"}}},
		},
	}

	for k, s := range states {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", k, err)
		}
		got, err := DecodeState(k, data, Extras{})
		if err != nil {
			t.Fatalf("DecodeState(%s): %v", k, err)
		}
		if !reflect.DeepEqual(got, s) {
			t.Errorf("DecodeState(%s):\n got %#v\nwant %#v", k, got, s)
		}
	}
}

func TestDecodeStateDefaults(t *testing.T) {
	got, err := DecodeState(Releases, []byte(`{"page":0,"filters":{"selectedRelease":"r1"}}`), Extras{PerPage: 30})
	if err != nil {
		t.Fatal(err)
	}
	want := ListState{
		PageState: PageState{Page: 1, PerPage: 30, Sort: Sort{Direction: Desc}},
		Filters:   ReleaseFilters{SelectedRelease: "r1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeState: got %#v, want %#v", got, want)
	}

	empty, err := DecodeState(Tenants, []byte(`{}`), Extras{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(empty.Filters, TenantFilters{}) {
		t.Errorf("missing filters: got %#v", empty.Filters)
	}
}

func TestDecodeStateErrors(t *testing.T) {
	if _, err := DecodeState(Devices, []byte(`{"page":`), Extras{}); !errors.HasCode(err, "E020") {
		t.Errorf("truncated JSON: got %v, want E020", err)
	}
	if _, err := DecodeState(Devices, []byte(`{"filters":{"issues":"offline"}}`), Extras{}); !errors.HasCode(err, "E020") {
		t.Errorf("mistyped filters: got %v, want E020", err)
	}
	if _, err := DecodeState(Kind(77), []byte(`{}`), Extras{}); !errors.HasCode(err, "E001") {
		t.Errorf("unknown kind: got %v, want E001", err)
	}
}

func TestAuditLogFiltersJSON(t *testing.T) {
	data, err := json.Marshal(AuditLogFilters{To: date(2024, 3, 9), Type: "user"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"to":"2024-03-09","type":"user"}` {
		t.Errorf("Marshal: got %s", data)
	}
	if strings.Contains(string(data), "0001") {
		t.Error("zero bounds must be omitted")
	}
}

func TestDefaultsExtras(t *testing.T) {
	d := BuiltinDefaults()
	d[Devices] = ResourceDefaults{PerPage: 50}

	loc := router.Location{Path: "/devices"}
	e := d.Extras(Devices, loc)
	if e.PerPage != 50 || e.BasePath != "/devices" || e.Location != loc {
		t.Errorf("Extras(devices) = %+v", e)
	}

	e = Defaults{}.Extras(Releases, loc)
	if e.PerPage != DefaultPerPage || e.BasePath != "/releases" {
		t.Errorf("Extras from empty defaults = %+v", e)
	}
}

func TestDefaultsKindOf(t *testing.T) {
	d := BuiltinDefaults()
	d[Releases] = ResourceDefaults{BasePath: "/software/releases"}
	d[Deployments] = ResourceDefaults{BasePath: "/software"}

	tests := []struct {
		path string
		want Kind
	}{
		{"/devices", Devices},
		{"/devices/accepted", Devices},
		{"/devicesx", Generic},
		{"/software/releases/rel-1", Releases},
		{"/software/releases", Releases},
		{"/software/deployments", Deployments},
		{"/tenants", Tenants},
		{"/auditlogs", AuditLogs},
		{"/releases", Generic},
		{"/", Generic},
		{"/settings", Generic},
	}
	for _, tt := range tests {
		if got := d.KindOf(tt.path); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
