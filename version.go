package patter

// Version is the library version. Release builds override it with
// -ldflags "-X github.com/patterflow/patter.Version=...".
var Version = "0.1.0-dev"
