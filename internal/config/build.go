package config

// DEV enables development-only tooling such as the tree dumper. It is set
// from the DevMode linker flag or from the config file.
var DEV bool

func SetDevMode(dev bool) {
	DEV = dev
}

type BuildType int

const (
	RELEASE BuildType = iota
	DEBUG
)

func CurrentBuild() BuildType {
	if DEV {
		return DEBUG
	}
	return RELEASE
}

func (bt BuildType) String() string {
	switch bt {
	case RELEASE:
		return "release"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}
