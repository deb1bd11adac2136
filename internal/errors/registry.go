package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Resource errors (E001-E009)
	"E001": {
		Category: CategoryResource,
		Message:  "Unknown resource",
		Detail:   "No list-state processor is registered for the requested resource kind.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E001",
	},

	// Navigation errors (E010-E019)
	"E010": {
		Category: CategoryNavigation,
		Message:  "Navigation failed",
		Detail:   "The navigator rejected the path and query computed for the list state.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E010",
	},
	"E011": {
		Category: CategoryNavigation,
		Message:  "Navigator closed",
		Detail:   "The navigation connection has been closed and cannot accept further navigations.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E011",
	},

	// Payload errors (E020-E029)
	"E020": {
		Category: CategoryPayload,
		Message:  "Invalid list state payload",
		Detail:   "The serialized list state could not be decoded for the requested resource.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E020",
	},
	"E021": {
		Category: CategoryPayload,
		Message:  "Invalid location",
		Detail:   "The location could not be parsed as a path with an optional query string.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E021",
	},

	// Config errors (E120-E149)
	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must use the .json, .yaml, .yml or .toml extension.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No configuration file was found in the given directory.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E141",
	},

	// CLI errors (E160-E169)
	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		Detail:   "The command was invoked with missing or malformed arguments.",
		DocURL:   "https://devconsole.dev/docs/liststate/errors/E160",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
