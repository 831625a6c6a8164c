package version

var (
	// PackageName is the name of the package.
	PackageName = "chronos"
	// Version is the version of the package. Set at build time.
	Version = "dev"
	// CommitHash is the git commit hash of the package. Set at build time.
	CommitHash = ""
	// BuildDate is the date the package was built. Set at build time.
	BuildDate = ""
)
