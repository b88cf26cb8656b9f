package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Compile Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryCompile,
		Message:  "Malformed node: no identifiable tag key",
		Detail:   "Every element object must start with its tag key. The first key of this object is empty, reserved (style, a \"&\" selector, or a \"_\" metadata key), or the object has no keys at all.",
		DocURL:   "https://omm.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryCompile,
		Message:  "Unsupported attribute value",
		Detail:   "An attribute value is an opaque host value (such as a function) that cannot be serialized to HTML. The attribute was dropped and rendering continued.",
		DocURL:   "https://omm.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryCompile,
		Message:  "Unsupported children payload",
		Detail:   "The children payload is an opaque host value. Reactive function children are a host-runtime extension and are not executed by the compiler; the element was rendered without children.",
		DocURL:   "https://omm.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryCompile,
		Message:  "Recursion limit exceeded",
		Detail:   "The tree is deeper than the configured limit or contains a cycle. The compile call was aborted because safe traversal is not possible.",
		DocURL:   "https://omm.dev/docs/errors/E104",
	},

	// ============================================
	// Compile Warnings (W200-W299)
	// ============================================

	"W201": {
		Category: CategoryCompile,
		Message:  "Style selector conflict",
		Detail:   "Two distinct declaration sets mapped to the same selector. The later rule's selector was suffixed to keep both rules in the stylesheet.",
		DocURL:   "https://omm.dev/docs/errors/W201",
	},

	// ============================================
	// Configuration Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Invalid omm.json",
		Detail:   "The project configuration file is malformed.",
		DocURL:   "https://omm.dev/docs/errors/E301",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Configuration validation failed",
		Detail:   "One or more configuration values are out of range or missing.",
		DocURL:   "https://omm.dev/docs/errors/E302",
	},
	"E303": {
		Category: CategoryConfig,
		Message:  "Not an OMM project",
		Detail:   "No omm.json or omm.yaml was found here or in any parent directory. Run this command from a project directory, or run \"omm init\" first.",
		DocURL:   "https://omm.dev/docs/errors/E303",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Project directory already exists",
		Detail:   "A directory with this name already exists.",
		DocURL:   "https://omm.dev/docs/errors/E401",
	},
	"E402": {
		Category: CategoryCLI,
		Message:  "No input documents",
		Detail:   "The configured input globs matched no .json or .yaml documents.",
		DocURL:   "https://omm.dev/docs/errors/E402",
	},
	"E403": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "One or more documents failed to compile. Check the diagnostics above.",
		DocURL:   "https://omm.dev/docs/errors/E403",
	},

	// ============================================
	// Publish Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryPublish,
		Message:  "Publish not configured",
		Detail:   "The publish section of omm.json has no bucket set.",
		DocURL:   "https://omm.dev/docs/errors/E501",
	},
	"E502": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "An object could not be uploaded to the configured bucket.",
		DocURL:   "https://omm.dev/docs/errors/E502",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
