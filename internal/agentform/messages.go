package agentform

// Message ids and default texts used by the agent form.
// Default texts use go-i18n template placeholders.
const (
	MsgTitleCreate = "app.operator.newAgent.title"
	MsgTitleEdit   = "app.operator.editAgent.title"

	MsgLabelName             = "app.operator.newAgent.label.name"
	MsgLabelIP               = "app.operator.newAgent.label.ip"
	MsgLabelImage            = "app.operator.newAgent.label.image"
	MsgLabelCapacity         = "app.operator.newAgent.label.agentCapacity"
	MsgLabelNodeCapacity     = "app.operator.newAgent.label.nodeCapacity"
	MsgLabelType             = "app.operator.newAgent.label.type"
	MsgLabelConfigFile       = "app.operator.newAgent.label.configFile"
	MsgLabelConfigFileSelect = "app.operator.newAgent.label.configFileSelect"
	MsgLabelLogLevel         = "app.operator.newAgent.label.logLevel"
	MsgLabelSchedulable      = "app.operator.newAgent.label.schedulable"

	MsgRequiredName         = "app.operator.newAgent.Required.Name"
	MsgRequiredIP           = "app.operator.newAgent.required.ip"
	MsgErrorIP              = "app.operator.newAgent.error.ip"
	MsgRequiredImage        = "app.operator.newAgent.required.image"
	MsgRequiredCapacity     = "app.operator.newAgent.required.agentCapacity"
	MsgRequiredNodeCapacity = "app.operator.newAgent.required.nodeCapacity"
	MsgRequiredType         = "app.operator.newAgent.Required.type"
	MsgRequiredLogLevel     = "app.operator.newAgent.Required.LogLevel"

	MsgCreateSuccess = "app.operator.newAgent.success"
	MsgCreateFail    = "app.operator.newAgent.fail"

	MsgButtonCancel = "form.button.cancel"
	MsgButtonSubmit = "form.button.submit"
)

var defaultTexts = map[string]string{
	MsgTitleCreate: "Create Agent",
	MsgTitleEdit:   "Edit Agent",

	MsgLabelName:             "Name",
	MsgLabelIP:               "Agent IP Address",
	MsgLabelImage:            "Image name of deploy agent",
	MsgLabelCapacity:         "Capacity of agent",
	MsgLabelNodeCapacity:     "Capacity of nodes",
	MsgLabelType:             "Type",
	MsgLabelConfigFile:       "Config file",
	MsgLabelConfigFileSelect: "Please select the config file.",
	MsgLabelLogLevel:         "Log level",
	MsgLabelSchedulable:      "Schedulable",

	MsgRequiredName:         "Please input name.",
	MsgRequiredIP:           "Please input the ip address of the agent.",
	MsgErrorIP:              "Please enter a valid IP address.For example:192.168.0.10.",
	MsgRequiredImage:        "Please input the name of the agent's image.",
	MsgRequiredCapacity:     "Please input the capacity of the agent.",
	MsgRequiredNodeCapacity: "Please input the capacity of nodes.",
	MsgRequiredType:         "Please select a type.",
	MsgRequiredLogLevel:     "Please select a log level.",

	MsgCreateSuccess: "Create agent {{.name}} success",
	MsgCreateFail:    "Create agent {{.name}} failed",

	MsgButtonCancel: "Cancel",
	MsgButtonSubmit: "Submit",
}

// DefaultText returns the built-in English text for a message id
func DefaultText(id string) string {
	if text, ok := defaultTexts[id]; ok {
		return text
	}
	return id
}
