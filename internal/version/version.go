package version

// Populated via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
