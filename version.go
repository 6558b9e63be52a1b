package gotext

// Name is the client name sent to the text API.
const Name = "gotext"

// Repository identifies the client in the User-Agent so API operators can reach us.
const Repository = "https://github.com/ZaguanLabs/gotext"

// Build metadata, set at release time:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gotext.LibraryVersion=1.0.0 -X github.com/ZaguanLabs/gotext.GitCommit=$(git rev-parse HEAD)"
var (
	// LibraryVersion is the semantic version of the module.
	LibraryVersion = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns LibraryVersion with the short commit appended when known.
func FullVersion() string {
	v := LibraryVersion
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent with text API requests,
// e.g. "gotext/0.1.0 (+https://github.com/ZaguanLabs/gotext)".
func UserAgent() string {
	return Name + "/" + FullVersion() + " (+" + Repository + ")"
}
