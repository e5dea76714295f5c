package agentform

import (
	"context"
	"testing"

	"agentconsole/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewField(t *testing.T, v View, key string) FieldView {
	t.Helper()
	for _, f := range v.Fields {
		if f.Key == key {
			return f
		}
	}
	t.Fatalf("field %s not in view", key)
	return FieldView{}
}

func TestView_CreateDefaults(t *testing.T) {
	p, err := NewPage(context.Background(), "p1", Params{}, newHarness().deps())
	require.NoError(t, err)

	v := p.View()
	assert.Equal(t, "p1", v.ID)
	assert.Equal(t, "Create Agent", v.Title)
	assert.Equal(t, "Submit", v.SubmitLabel)
	assert.Equal(t, "Cancel", v.CancelLabel)
	require.Len(t, v.Fields, 9)

	assert.Equal(t, 1, viewField(t, v, model.FieldCapacity).Value)
	assert.Equal(t, 10, viewField(t, v, model.FieldNodeCapacity).Value)
	assert.Equal(t, "docker", viewField(t, v, model.FieldType).Value)
	assert.Equal(t, "info", viewField(t, v, model.FieldLogLevel).Value)
	assert.Equal(t, true, viewField(t, v, model.FieldSchedulable).Value)
	assert.Nil(t, viewField(t, v, model.FieldConfigFile).Value)

	ip := viewField(t, v, model.FieldIP)
	assert.Equal(t, "Agent IP Address", ip.Label)
	assert.Equal(t, "192.168.0.10", ip.Placeholder)
	assert.False(t, ip.Disabled)

	file := viewField(t, v, model.FieldConfigFile)
	assert.Equal(t, "Please select the config file.", file.Placeholder)
}

func TestView_EditDisablesIPAndType(t *testing.T) {
	p, err := NewPage(context.Background(), "p1", Params{Action: "edit", AgentID: "a-1"}, newHarness().deps())
	require.NoError(t, err)

	v := p.View()
	assert.Equal(t, "Edit Agent", v.Title)
	assert.True(t, viewField(t, v, model.FieldIP).Disabled)
	assert.True(t, viewField(t, v, model.FieldType).Disabled)
	assert.Nil(t, viewField(t, v, model.FieldCapacity).Value)
	assert.Nil(t, viewField(t, v, model.FieldSchedulable).Value)
}

func TestView_FileMetadata(t *testing.T) {
	p, err := NewPage(context.Background(), "p1", Params{}, newHarness().deps())
	require.NoError(t, err)
	require.NoError(t, p.SelectConfigFile(&model.ConfigFile{Filename: "agent.zip", ContentType: "application/zip", Content: []byte("12345")}))

	fv, ok := viewField(t, p.View(), model.FieldConfigFile).Value.(*FileView)
	require.True(t, ok)
	assert.Equal(t, "agent.zip", fv.Filename)
	assert.Equal(t, 5, fv.Size)
}

func TestView_AfterCancel(t *testing.T) {
	p, err := NewPage(context.Background(), "p1", Params{}, newHarness().deps())
	require.NoError(t, err)
	p.Cancel(context.Background())

	v := p.View()
	assert.Equal(t, StateDone, v.State)
	for _, f := range v.Fields {
		assert.Nil(t, f.Value, f.Key)
	}
}

func TestView_Localized(t *testing.T) {
	deps := newHarness().deps()
	deps.Localizer = prefixLocalizer{}
	p, err := NewPage(context.Background(), "p1", Params{}, deps)
	require.NoError(t, err)

	v := p.View()
	assert.Equal(t, "zh:"+MsgLabelName, viewField(t, v, model.FieldName).Label)
	assert.Equal(t, "zh:"+MsgButtonSubmit, v.SubmitLabel)
}
