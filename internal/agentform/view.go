package agentform

import (
	"agentconsole/internal/model"
)

// FileView metadata of the selected config file
type FileView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

// FieldView a field descriptor with its localized label and current value
type FieldView struct {
	Field
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// View renderable form state
type View struct {
	ID          string         `json:"id"`
	Mode        model.FormMode `json:"mode"`
	AgentID     string         `json:"agent_id,omitempty"`
	Title       string         `json:"title"`
	State       State          `json:"state"`
	Loading     Loading        `json:"loading"`
	Fields      []FieldView    `json:"fields"`
	SubmitLabel string         `json:"submit_label"`
	CancelLabel string         `json:"cancel_label"`
}

// View returns the localized form view of the page
func (p *Page) View() View {
	snap := p.Snapshot()
	l := p.deps.Localizer

	fields := Fields(snap.Mode)
	views := make([]FieldView, len(fields))
	for i, f := range fields {
		if _, ok := defaultTexts[f.Placeholder]; ok {
			f.Placeholder = resolve(l, f.Placeholder, nil)
		}
		views[i] = FieldView{
			Field: f,
			Label: resolve(l, f.LabelID, nil),
			Value: fieldValue(snap.Draft, f.Key),
		}
	}

	return View{
		ID:          snap.ID,
		Mode:        snap.Mode,
		AgentID:     snap.AgentID,
		Title:       p.Title(),
		State:       snap.State,
		Loading:     snap.Loading,
		Fields:      views,
		SubmitLabel: resolve(l, MsgButtonSubmit, nil),
		CancelLabel: resolve(l, MsgButtonCancel, nil),
	}
}

func fieldValue(d *model.AgentDraft, key string) interface{} {
	if d == nil {
		return nil
	}
	switch key {
	case model.FieldName:
		return d.Name
	case model.FieldIP:
		return d.IP
	case model.FieldImage:
		return d.Image
	case model.FieldCapacity:
		if d.Capacity == nil {
			return nil
		}
		return *d.Capacity
	case model.FieldNodeCapacity:
		if d.NodeCapacity == nil {
			return nil
		}
		return *d.NodeCapacity
	case model.FieldType:
		return d.Type.String()
	case model.FieldConfigFile:
		if d.ConfigFile == nil {
			return nil
		}
		return &FileView{Filename: d.ConfigFile.Filename, ContentType: d.ConfigFile.ContentType, Size: d.ConfigFile.Size()}
	case model.FieldLogLevel:
		return string(d.LogLevel)
	case model.FieldSchedulable:
		if d.Schedulable == nil {
			return nil
		}
		return *d.Schedulable
	}
	return nil
}
