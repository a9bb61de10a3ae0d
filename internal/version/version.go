// Package version holds the release versions of the two anxiety binaries.
// anxietyd and anxietyctl are versioned independently; both follow semver.
package version

// AnxietydVersion is the daemon version reported by --version and /health.
const AnxietydVersion = "0.1.0-dev"

// AnxietyctlVersion is the CLI version reported by --version.
const AnxietyctlVersion = "0.1.0-dev"
