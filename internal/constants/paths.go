package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.crewgen/logs/crewgen.log
	CLILogFileName = "crewgen.log"
)

// Configuration and data file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the crewgen home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-level configuration directory.
	ProjectConfigDir = ".crewgen"

	// DatabaseFileName is the default SQLite database file name.
	DatabaseFileName = "crewgen.db"

	// ConfigFileSuffix is appended to the normalized mission name to form
	// the rendered configuration file name.
	ConfigFileSuffix = "_crew.yaml"
)
