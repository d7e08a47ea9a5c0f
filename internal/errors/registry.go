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
	// Config (E100-E199)
	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No htmldoc.json was found in the current directory or any parent directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Config file could not be read",
		Detail:   "htmldoc.json exists but could not be read or decoded as JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A value in htmldoc.json is out of range or inconsistent.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Config file could not be written",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Environment file could not be loaded",
		Detail:   "A .env file exists next to htmldoc.json but could not be parsed.",
	},

	// Report (E200-E299)
	"E200": {
		Category: CategoryReport,
		Message:  "Report could not be read",
	},
	"E201": {
		Category: CategoryReport,
		Message:  "Report could not be parsed",
		Detail:   "Report descriptions are YAML documents with a title and a list of sections.",
	},
	"E202": {
		Category: CategoryReport,
		Message:  "Invalid report",
	},
	"E203": {
		Category: CategoryReport,
		Message:  "Report not found",
	},
	"E204": {
		Category: CategoryReport,
		Message:  "Reports directory could not be listed",
	},

	// Render (E300-E399)
	"E300": {
		Category: CategoryRender,
		Message:  "Document could not be written",
		Detail:   "The destination returned an error while the document was being written.",
	},
	"E301": {
		Category: CategoryRender,
		Message:  "Output file could not be created",
	},

	// Publish (E400-E499)
	"E400": {
		Category: CategoryPublish,
		Message:  "No bucket configured",
		Detail:   "Publishing needs a bucket, either from publish.bucket in htmldoc.json or the --bucket flag.",
	},
	"E401": {
		Category: CategoryPublish,
		Message:  "Upload failed",
	},
	"E402": {
		Category: CategoryPublish,
		Message:  "Object store client could not be created",
	},

	// Serve (E500-E599)
	"E500": {
		Category: CategoryServe,
		Message:  "Preview server failed",
	},
	"E501": {
		Category: CategoryServe,
		Message:  "File watcher could not be started",
	},

	// CLI (E600-E699)
	"E600": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
