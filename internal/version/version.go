package version

// Version is set at build time via -ldflags "-X".
var Version = "unknown"
