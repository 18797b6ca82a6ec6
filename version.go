package lattice

// Version is the release of this build, set with -ldflags "-X github.com/aretw0/lattice.Version=...".
var Version = "dev"
