package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config (N001-N019)
	"N001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration value",
		Suggestion: "Check nano.yaml and NANO_* environment variables.",
	},
	"N002": {
		Category:   CategoryConfig,
		Message:    "Configuration file could not be read",
		Suggestion: "Make sure the file exists and is valid YAML.",
	},
	"N003": {
		Category: CategoryConfig,
		Message:  "Configuration reload rejected",
		Suggestion: "The previous configuration stays in effect until the file " +
			"is fixed.",
	},

	// Render (N020-N039)
	"N020": {
		Category: CategoryRender,
		Message:  "Server render failed",
	},
	"N021": {
		Category:   CategoryRender,
		Message:    "Unknown page",
		Suggestion: "Run `nano render --list` to see the available pages.",
	},

	// Hydration (N040-N059)
	"N040": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch",
		Suggestion: "The markup was not produced from the same tree. Render " +
			"it again with `nano render` before hydrating.",
	},
	"N041": {
		Category:   CategoryHydration,
		Message:    "Hydration container not found",
		Suggestion: "Pass the container id with --container.",
	},
	"N042": {
		Category: CategoryHydration,
		Message:  "Markup could not be parsed",
	},

	// Dev server (N060-N079)
	"N060": {
		Category: CategoryDev,
		Message:  "Dev server failed",
	},
	"N061": {
		Category: CategoryDev,
		Message:  "Session not found",
	},
	"N062": {
		Category: CategoryDev,
		Message:  "Invalid client message",
	},

	// CLI (N080-N099)
	"N080": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
	"N081": {
		Category: CategoryCLI,
		Message:  "Input file not found",
	},
}

// Codes returns the registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
