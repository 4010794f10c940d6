package horizon

const (
	// DefaultRoot is the mount path assumed when a page URL carries no known keyword
	DefaultRoot = "/horizon"

	// DirectoryPath is the project listing page, relative to the mount path
	DirectoryPath = "/identity/"

	// SwitchPath is the project switch endpoint, relative to the mount path
	SwitchPath = "/auth/switch"
)

// MountKeywords are the path segments a console can be mounted under, in
// preference order. The first one is the default.
var MountKeywords = []string{"horizon", "dashboard"}
