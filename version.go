package espalier

// Version is the library version, reported by the CLI and the HTTP info
// endpoint.
const Version = "0.1.0"
