package defs

// Directory names under the user's home directory.
const (
	// HabitDir is the per-user application directory (~/.habit).
	HabitDir = ".habit"

	// DataSubdir holds the persisted habit collection.
	DataSubdir = "data"
)

// Common file names used across the project.
const (
	// ConfigYAML is the configuration file inside HabitDir.
	ConfigYAML = "config.yaml"

	// HabitsJSON is the JSON storage document. It matches the file name of
	// earlier releases so existing data is picked up unchanged.
	HabitsJSON = "habits.json"

	// HabitsDB is the SQLite storage database.
	HabitsDB = "habits.db"

	// LockSuffix is appended to the data file path to form the lock file path.
	LockSuffix = ".lock"
)
