package cli

// Default values for CLI output.
const (
	// MaxDescriptionLength is the maximum length of a package description in search results.
	MaxDescriptionLength = 60
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)
