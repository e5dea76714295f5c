package agentform

import (
	"strconv"

	"agentconsole/internal/model"
)

// BuildCreatePayload copies every draft field into a multipart payload by key, in form order.
// config_file carries the raw file and is only present when a file is selected.
func BuildCreatePayload(draft *model.AgentDraft) *model.AgentPayload {
	payload := &model.AgentPayload{}
	for _, f := range Fields(model.FormModeCreate) {
		if f.Key == model.FieldConfigFile {
			if draft.ConfigFile != nil {
				file := *draft.ConfigFile
				file.Content = append([]byte(nil), draft.ConfigFile.Content...)
				payload.ConfigFile = &file
			}
			continue
		}
		payload.Fields = append(payload.Fields, model.PayloadField{Key: f.Key, Value: encodeField(draft, f.Key)})
	}
	return payload
}

// BuildUpdatePayload returns the update payload.
// Edit submissions carry no draft fields; see DESIGN.md "edit submission".
func BuildUpdatePayload(_ *model.AgentDraft) map[string]interface{} {
	return map[string]interface{}{}
}

func encodeField(draft *model.AgentDraft, key string) string {
	switch key {
	case model.FieldName:
		return draft.Name
	case model.FieldIP:
		return draft.IP
	case model.FieldImage:
		return draft.Image
	case model.FieldCapacity:
		return encodeInt(draft.Capacity)
	case model.FieldNodeCapacity:
		return encodeInt(draft.NodeCapacity)
	case model.FieldType:
		return draft.Type.String()
	case model.FieldLogLevel:
		return draft.LogLevel.String()
	case model.FieldSchedulable:
		if draft.Schedulable == nil {
			return ""
		}
		return strconv.FormatBool(*draft.Schedulable)
	}
	return ""
}

func encodeInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
