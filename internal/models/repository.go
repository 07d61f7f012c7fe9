package models

// MirrorConfig contains configuration for mirror generation
type MirrorConfig struct {
	// Input/Output
	DownloadDir string
	MirrorDir   string

	// Copy artifacts into the mirror instead of symlinking them
	Copy bool

	// Signing
	GPGKeyPath    string
	GPGPassphrase string
}

// DeleteConfig selects what the delete command removes
type DeleteConfig struct {
	Package        string
	Version        string // Remove only this version
	KeepLatest     int    // Remove all but the newest N versions (-1 = unset)
	NoMirrorUpdate bool
	DryRun         bool
}

// ListConfig contains options of the list command
type ListConfig struct {
	DownloadDir string
	NameOnly    bool
	Name        string
	JSON        bool
}

// QueryConfig contains options of the query command
type QueryConfig struct {
	Package      string
	Filter       string
	Latest       int // -1 = all versions
	URL          string
	OutputFormat string
}
