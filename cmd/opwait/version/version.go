package version

// GitVersion is set at build time with -ldflags.
var GitVersion string
