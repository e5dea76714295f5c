package constants

// AgentType agent deployment type
type AgentType string

const (
	AgentTypeDocker     AgentType = "docker"
	AgentTypeKubernetes AgentType = "kubernetes"
)

func (t AgentType) String() string {
	return string(t)
}

// AgentTypes lists the selectable agent types, the first one is the create default
var AgentTypes = []AgentType{AgentTypeDocker, AgentTypeKubernetes}

// IsValid reports whether t is one of AgentTypes
func (t AgentType) IsValid() bool {
	for _, v := range AgentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// LogLevel agent log level
type LogLevel string

const (
	LogLevelInfo     LogLevel = "info"
	LogLevelWarning  LogLevel = "warning"
	LogLevelDebug    LogLevel = "debug"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
)

func (l LogLevel) String() string {
	return string(l)
}

// LogLevels lists the selectable log levels, the first one is the create default
var LogLevels = []LogLevel{LogLevelInfo, LogLevelWarning, LogLevelDebug, LogLevelError, LogLevelCritical}

// IsValid reports whether l is one of LogLevels
func (l LogLevel) IsValid() bool {
	for _, v := range LogLevels {
		if v == l {
			return true
		}
	}
	return false
}

// Capacity bounds and create-mode defaults
const (
	MinAgentCapacity     = 1
	MaxAgentCapacity     = 100
	DefaultAgentCapacity = 1

	MinNodeCapacity     = 1
	MaxNodeCapacity     = 600
	DefaultNodeCapacity = 10
)

// AgentListPath is the dashboard list view agents navigate back to
const AgentListPath = "/operator/agent"
