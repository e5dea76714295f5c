package agentform

import (
	"agentconsole/internal/model"
	"agentconsole/pkg/constants"
)

// FieldKind input widget kind of a form field
type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindNumber FieldKind = "number"
	FieldKindSelect FieldKind = "select"
	FieldKindFile   FieldKind = "file"
	FieldKindSwitch FieldKind = "switch"
)

// Field describes one form field as rendered for a given mode
type Field struct {
	Key          string    `json:"key"`
	Kind         FieldKind `json:"kind"`
	LabelID      string    `json:"label_id"`
	Required     bool      `json:"required"`
	Disabled     bool      `json:"disabled"`
	Options      []string  `json:"options,omitempty"`
	Min          *int      `json:"min,omitempty"`
	Max          *int      `json:"max,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	RequiredID   string    `json:"-"`
	ValidationID string    `json:"-"`
}

func intPtr(v int) *int { return &v }

func agentTypeOptions() []string {
	opts := make([]string, len(constants.AgentTypes))
	for i, t := range constants.AgentTypes {
		opts[i] = t.String()
	}
	return opts
}

func logLevelOptions() []string {
	opts := make([]string, len(constants.LogLevels))
	for i, l := range constants.LogLevels {
		opts[i] = l.String()
	}
	return opts
}

// Fields returns the ordered field schema for mode
func Fields(mode model.FormMode) []Field {
	return []Field{
		{Key: model.FieldName, Kind: FieldKindText, LabelID: MsgLabelName, RequiredID: MsgRequiredName},
		{
			Key: model.FieldIP, Kind: FieldKindText, LabelID: MsgLabelIP, Required: true,
			Disabled: isDisabled(mode, model.FieldIP), Placeholder: "192.168.0.10",
			RequiredID: MsgRequiredIP, ValidationID: MsgErrorIP,
		},
		{Key: model.FieldImage, Kind: FieldKindText, LabelID: MsgLabelImage, Required: true, RequiredID: MsgRequiredImage},
		{
			Key: model.FieldCapacity, Kind: FieldKindNumber, LabelID: MsgLabelCapacity, Required: true,
			Min: intPtr(constants.MinAgentCapacity), Max: intPtr(constants.MaxAgentCapacity),
			RequiredID: MsgRequiredCapacity,
		},
		{
			Key: model.FieldNodeCapacity, Kind: FieldKindNumber, LabelID: MsgLabelNodeCapacity, Required: true,
			Min: intPtr(constants.MinNodeCapacity), Max: intPtr(constants.MaxNodeCapacity),
			RequiredID: MsgRequiredNodeCapacity,
		},
		{
			Key: model.FieldType, Kind: FieldKindSelect, LabelID: MsgLabelType, Required: true,
			Disabled: isDisabled(mode, model.FieldType), Options: agentTypeOptions(), RequiredID: MsgRequiredType,
		},
		{Key: model.FieldConfigFile, Kind: FieldKindFile, LabelID: MsgLabelConfigFile, Placeholder: MsgLabelConfigFileSelect},
		{Key: model.FieldLogLevel, Kind: FieldKindSelect, LabelID: MsgLabelLogLevel, Options: logLevelOptions(), RequiredID: MsgRequiredLogLevel},
		{Key: model.FieldSchedulable, Kind: FieldKindSwitch, LabelID: MsgLabelSchedulable},
	}
}

// isDisabled reports whether key is immutable in mode.
// ip and type cannot change once the agent exists.
func isDisabled(mode model.FormMode, key string) bool {
	if mode == model.FormModeCreate {
		return false
	}
	return key == model.FieldIP || key == model.FieldType
}

// DefaultDraft returns the initial draft for a freshly mounted page.
// existing seeds edit mode and may be nil.
func DefaultDraft(mode model.FormMode, existing *model.Agent) *model.AgentDraft {
	if mode == model.FormModeCreate {
		capacity := constants.DefaultAgentCapacity
		nodeCapacity := constants.DefaultNodeCapacity
		schedulable := true
		return &model.AgentDraft{
			Capacity:     &capacity,
			NodeCapacity: &nodeCapacity,
			Type:         constants.AgentTypes[0],
			LogLevel:     constants.LogLevels[0],
			Schedulable:  &schedulable,
		}
	}

	draft := &model.AgentDraft{}
	if existing == nil {
		return draft
	}
	capacity := existing.Capacity
	nodeCapacity := existing.NodeCapacity
	draft.Name = existing.Name
	draft.IP = existing.IP
	draft.Image = existing.Image
	draft.Capacity = &capacity
	draft.NodeCapacity = &nodeCapacity
	draft.Type = existing.Type
	draft.LogLevel = existing.LogLevel
	if existing.Schedulable != nil {
		v := *existing.Schedulable
		draft.Schedulable = &v
	}
	return draft
}
