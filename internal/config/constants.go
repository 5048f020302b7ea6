package config

// ScenarioFileExtensions are all recognized scenario file extensions
var ScenarioFileExtensions = []string{".yaml", ".yml"}

// Config file names searched by FindConfig, in order.
var ConfigFileNames = []string{"monty.yaml", "monty.yml"}

// Built-in function names
const (
	GetattrFuncName = "getattr"
	SetattrFuncName = "setattr"
	DelattrFuncName = "delattr"
	HasattrFuncName = "hasattr"
	LenFuncName     = "len"
	SliceFuncName   = "slice"
)

// Host function names provided by the default conformance host
const (
	MakePointFuncName        = "make_point"
	MakeMutablePointFuncName = "make_mutable_point"
)

// Record type names produced by the default host
const (
	PointTypeName        = "Point"
	MutablePointTypeName = "MutablePoint"
)

// Execution modes
const (
	ModeDirect = "direct"
	ModeIter   = "iter"
)

// Modes lists the valid execution modes
var Modes = []string{ModeDirect, ModeIter}

// ModeDirective is the key (or head-comment prefix) that selects a mode
// inside a scenario file.
const ModeDirective = "mode"

// Color settings for terminal output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Defaults
const (
	DefaultMode         = ModeDirect
	DefaultColor        = ColorAuto
	DefaultLogLevel     = "info"
	DefaultHistoryLimit = 20
)
