package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agentService struct {
	mu      sync.Mutex
	created []map[string]string
	files   []string
	updated []string
	fail    bool
}

func (s *agentService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/agents":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			fields := map[string]string{}
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
			s.created = append(s.created, fields)
			if fh, ok := r.MultipartForm.File["config_file"]; ok {
				s.files = append(s.files, fh[0].Filename)
			}
			if s.fail {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "ip already in use"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "a-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/agents/a-1":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "a-1", "name": "agent1", "ip": "10.0.0.1", "image": "img",
				"capacity": 2, "node_capacity": 20, "type": "docker", "log_level": "info",
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/agents/a-1":
			s.updated = append(s.updated, "a-1")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "agent not found"})
		}
	}
}

func run(t *testing.T, svc *agentService, args ...string) (string, string, error) {
	t.Helper()
	server := httptest.NewServer(svc.handler(t))
	t.Cleanup(server.Close)

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(append(args, "--server", server.URL))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCreate_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.zip")
	require.NoError(t, os.WriteFile(path, []byte("zipdata"), 0o644))

	svc := &agentService{}
	out, _, err := run(t, svc, "create", "--name", "agent1", "--ip", "10.0.0.1", "--image", "img", "--capacity", "500", "--config-file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Create Agent")
	assert.Contains(t, out, "✔ Create agent agent1 success")
	assert.Contains(t, out, "→ /operator/agent")

	require.Len(t, svc.created, 1)
	assert.Equal(t, "100", svc.created[0]["capacity"])
	assert.Equal(t, "10", svc.created[0]["node_capacity"])
	assert.Equal(t, "docker", svc.created[0]["type"])
	assert.Equal(t, "true", svc.created[0]["schedulable"])
	assert.Equal(t, []string{"agent.zip"}, svc.files)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := &agentService{}
	_, errOut, err := run(t, svc, "create", "--ip", "300.1.1.1")
	require.Error(t, err)

	assert.Contains(t, errOut, "ip: Please enter a valid IP address")
	assert.Contains(t, errOut, "image: Please input the name of the agent's image.")
	assert.Empty(t, svc.created)
}

func TestCreate_ServiceFailureLocalized(t *testing.T) {
	svc := &agentService{fail: true}
	out, errOut, err := run(t, svc, "create", "--name", "agent1", "--ip", "10.0.0.1", "--image", "img", "--lang", "zh-CN")
	require.ErrorIs(t, err, errSubmitFailed)

	assert.Contains(t, out, "✖ 创建代理 agent1 失败")
	assert.NotContains(t, out, "→")
	assert.Contains(t, errOut, "ip already in use")
}

func TestCreate_InvalidOption(t *testing.T) {
	svc := &agentService{}
	_, errOut, err := run(t, svc, "create", "--type", "vm")
	require.Error(t, err)
	assert.Contains(t, errOut, "not a valid option")
}

func TestEdit(t *testing.T) {
	svc := &agentService{}
	out, _, err := run(t, svc, "edit", "--id", "a-1", "--name", "renamed")
	require.NoError(t, err)

	assert.Contains(t, out, "Edit Agent")
	assert.Contains(t, out, "Agent a-1 updated")
	assert.Equal(t, []string{"a-1"}, svc.updated)
	assert.NotContains(t, out, "✔")
}

func TestEdit_DisabledField(t *testing.T) {
	svc := &agentService{}
	_, errOut, err := run(t, svc, "edit", "--id", "a-1", "--ip", "10.0.0.2")
	require.Error(t, err)
	assert.Contains(t, errOut, "field is disabled")
	assert.Empty(t, svc.updated)
}

func TestEdit_RequiresID(t *testing.T) {
	_, _, err := run(t, &agentService{}, "edit")
	assert.Error(t, err)
}

func TestEdit_UnknownAgent(t *testing.T) {
	_, errOut, err := run(t, &agentService{}, "edit", "--id", "missing")
	require.Error(t, err)
	assert.Contains(t, errOut, "agent not found")
}
