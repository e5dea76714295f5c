package model

import (
	"time"

	"agentconsole/pkg/constants"
)

// FormMode agent form mode, fixed for the lifetime of a page
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// ParseFormMode resolves the action navigation parameter.
// Absent and unrecognised values resolve to create.
func ParseFormMode(action string) FormMode {
	if FormMode(action) == FormModeEdit {
		return FormModeEdit
	}
	return FormModeCreate
}

func (m FormMode) String() string {
	return string(m)
}

// ConfigFile agent config file selected for upload
type ConfigFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content"`
}

// Size returns the file size in bytes
func (f *ConfigFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Content)
}

// AgentDraft working state of the agent form
type AgentDraft struct {
	Name         string              `json:"name"`
	IP           string              `json:"ip" validate:"required,ip"`
	Image        string              `json:"image" validate:"required"`
	Capacity     *int                `json:"capacity" validate:"required,min=1,max=100"`
	NodeCapacity *int                `json:"node_capacity" validate:"required,min=1,max=600"`
	Type         constants.AgentType `json:"type" validate:"required,oneof=docker kubernetes"`
	ConfigFile   *ConfigFile         `json:"config_file,omitempty"`
	LogLevel     constants.LogLevel  `json:"log_level" validate:"omitempty,oneof=info warning debug error critical"`
	Schedulable  *bool               `json:"schedulable"` // nil when unset
}

// Clone returns a deep copy of the draft
func (d *AgentDraft) Clone() *AgentDraft {
	if d == nil {
		return nil
	}
	c := *d
	if d.Capacity != nil {
		v := *d.Capacity
		c.Capacity = &v
	}
	if d.NodeCapacity != nil {
		v := *d.NodeCapacity
		c.NodeCapacity = &v
	}
	if d.Schedulable != nil {
		v := *d.Schedulable
		c.Schedulable = &v
	}
	if d.ConfigFile != nil {
		f := *d.ConfigFile
		f.Content = append([]byte(nil), d.ConfigFile.Content...)
		c.ConfigFile = &f
	}
	return &c
}

// Agent agent record as returned by the agent service
type Agent struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	IP           string              `json:"ip"`
	Image        string              `json:"image"`
	Capacity     int                 `json:"capacity"`
	NodeCapacity int                 `json:"node_capacity"`
	Type         constants.AgentType `json:"type"`
	LogLevel     constants.LogLevel  `json:"log_level"`
	Schedulable  *bool               `json:"schedulable,omitempty"`
	Status       string              `json:"status,omitempty"`
	CreatedAt    *time.Time          `json:"created_at,omitempty"`
}

// PayloadField single string-encoded multipart form field
type PayloadField struct {
	Key   string
	Value string
}

// AgentPayload multipart create payload, scalar fields in form order plus an optional config file
type AgentPayload struct {
	Fields     []PayloadField
	ConfigFile *ConfigFile
}

// Get returns the value stored under key, or "" when absent
func (p *AgentPayload) Get(key string) string {
	if p == nil {
		return ""
	}
	for _, f := range p.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Has reports whether key is present, config_file included
func (p *AgentPayload) Has(key string) bool {
	if p == nil {
		return false
	}
	if key == FieldConfigFile {
		return p.ConfigFile != nil
	}
	for _, f := range p.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Keys returns all payload keys in form order
func (p *AgentPayload) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.Fields)+1)
	for _, f := range p.Fields {
		keys = append(keys, f.Key)
	}
	if p.ConfigFile != nil {
		keys = append(keys, FieldConfigFile)
	}
	return keys
}

// Values returns the scalar fields as a map
func (p *AgentPayload) Values() map[string]string {
	values := make(map[string]string, len(p.Fields))
	for _, f := range p.Fields {
		values[f.Key] = f.Value
	}
	return values
}

// CreateAgentResult raw result of the create operation
type CreateAgentResult struct {
	ID  string                 `json:"id"`
	Raw map[string]interface{} `json:"-"`
}

// Created reports whether the result identifies a created record
func (r *CreateAgentResult) Created() bool {
	return r != nil && r.ID != ""
}

// Agent form field keys, shared by the draft, the payload and the HTTP surface
const (
	FieldName         = "name"
	FieldIP           = "ip"
	FieldImage        = "image"
	FieldCapacity     = "capacity"
	FieldNodeCapacity = "node_capacity"
	FieldType         = "type"
	FieldConfigFile   = "config_file"
	FieldLogLevel     = "log_level"
	FieldSchedulable  = "schedulable"
)
