package liststate

import (
	"encoding/json"

	"github.com/devconsole/liststate/internal/errors"
)

// DecodeState decodes a JSON list state of kind k, as produced by
// json.Marshal(ListState). Missing or out-of-range page fields are set to
// their defaults; missing filters decode as the kind's empty filters.
func DecodeState(k Kind, data []byte, extras Extras) (ListState, error) {
	if _, err := Lookup(k); err != nil {
		return ListState{}, err
	}

	var raw struct {
		PageState
		Total   int             `json:"total"`
		Filters json.RawMessage `json:"filters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ListState{}, errors.New("E020").WithDetail(k.String()).Wrap(err)
	}

	filters, err := decodeFilters(k, raw.Filters)
	if err != nil {
		return ListState{}, errors.New("E020").WithDetail(k.String() + " filters").Wrap(err)
	}

	return ListState{
		PageState: raw.PageState.normalize(extras.perPage()),
		Total:     max(raw.Total, 0),
		Filters:   filters,
	}, nil
}

func decodeFilters(k Kind, raw json.RawMessage) (Filters, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Empty(k)
	}
	switch k {
	case Devices:
		var f DeviceFilters
		err := json.Unmarshal(raw, &f)
		return f, err
	case Deployments:
		var f DeploymentFilters
		err := json.Unmarshal(raw, &f)
		return f, err
	case Releases:
		var f ReleaseFilters
		err := json.Unmarshal(raw, &f)
		return f, err
	case AuditLogs:
		var f AuditLogFilters
		err := json.Unmarshal(raw, &f)
		return f, err
	case Tenants:
		var f TenantFilters
		err := json.Unmarshal(raw, &f)
		return f, err
	case Generic:
		var f GenericFilters
		err := json.Unmarshal(raw, &f)
		if len(f.Params) == 0 {
			f.Params = nil
		}
		return f, err
	}
	return nil, unknownKind(k.String())
}
