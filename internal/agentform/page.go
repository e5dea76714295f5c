package agentform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentconsole/internal/model"
	"agentconsole/pkg/constants"
	"agentconsole/pkg/interfaces"
	"agentconsole/pkg/logger"
)

// State page submission state
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
)

var (
	ErrFieldDisabled = errors.New("field is disabled")
	ErrInvalidOption = errors.New("value is not a valid option")
	ErrPageClosed    = errors.New("page is closed")
)

// Loading submit control loading flags, one per mode
type Loading struct {
	Submitting bool `json:"submitting"`
	Updating   bool `json:"updating"`
}

// Params navigation parameters a page is mounted with
type Params struct {
	Action  string // create | edit, absent means create
	AgentID string // agent to edit
}

// Dependencies collaborators injected into a page
type Dependencies struct {
	Service   interfaces.AgentService
	Reader    interfaces.AgentReader // optional, seeds edit mode
	Navigator interfaces.Navigator
	Notifier  interfaces.Notifier
	Localizer interfaces.Localizer // optional, built-in English texts when nil
	Observer  func(Snapshot)       // optional, called on every state transition
}

// Notification levels
const (
	NotificationSuccess = "success"
	NotificationFailure = "failure"
)

// Notification user-visible outcome message
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Outcome result of a completed submission
type Outcome struct {
	Mode         model.FormMode `json:"mode"`
	AgentID      string         `json:"agent_id,omitempty"`
	Succeeded    bool           `json:"succeeded"`
	Notification *Notification  `json:"notification,omitempty"`
	Redirect     string         `json:"redirect,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Snapshot serializable page instance state
type Snapshot struct {
	ID        string            `json:"id"`
	Mode      model.FormMode    `json:"mode"`
	AgentID   string            `json:"agent_id,omitempty"`
	Draft     *model.AgentDraft `json:"draft,omitempty"`
	State     State             `json:"state"`
	Loading   Loading           `json:"loading"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Page agent create/edit form page instance
type Page struct {
	mu        sync.Mutex
	id        string
	mode      model.FormMode
	agentID   string
	draft     *model.AgentDraft
	state     State
	loading   Loading
	createdAt time.Time
	updatedAt time.Time
	deps      Dependencies
}

// NewPage mounts a page. The mode is resolved from params once and never changes.
func NewPage(ctx context.Context, id string, params Params, deps Dependencies) (*Page, error) {
	mode := model.ParseFormMode(params.Action)

	var existing *model.Agent
	if mode == model.FormModeEdit && params.AgentID != "" && deps.Reader != nil {
		agent, err := deps.Reader.GetAgent(ctx, params.AgentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load agent %s: %w", params.AgentID, err)
		}
		existing = agent
	}

	now := time.Now()
	p := &Page{
		id:        id,
		mode:      mode,
		agentID:   params.AgentID,
		draft:     DefaultDraft(mode, existing),
		state:     StateEditing,
		createdAt: now,
		updatedAt: now,
		deps:      deps,
	}
	logger.DebugCtx(ctx, "agent form page %s mounted, mode: %s, agent_id: %s", id, mode, params.AgentID)
	return p, nil
}

// Restore rebuilds a page instance from a snapshot
func Restore(s *Snapshot, deps Dependencies) *Page {
	draft := s.Draft.Clone()
	if draft == nil && s.State != StateDone {
		draft = &model.AgentDraft{}
	}
	return &Page{
		id:        s.ID,
		mode:      model.ParseFormMode(s.Mode.String()),
		agentID:   s.AgentID,
		draft:     draft,
		state:     s.State,
		loading:   s.Loading,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		deps:      deps,
	}
}

func (p *Page) ID() string { return p.id }

func (p *Page) Mode() model.FormMode { return p.mode }

func (p *Page) AgentID() string { return p.agentID }

// State returns the current submission state
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Loading returns the loading flags of the submit control
func (p *Page) Loading() Loading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Draft returns a copy of the working draft, nil once discarded
func (p *Page) Draft() *model.AgentDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.Clone()
}

// Fields returns the field schema for the page mode
func (p *Page) Fields() []Field {
	return Fields(p.mode)
}

// Title returns the localized page title
func (p *Page) Title() string {
	if p.mode == model.FormModeEdit {
		return resolve(p.deps.Localizer, MsgTitleEdit, nil)
	}
	return resolve(p.deps.Localizer, MsgTitleCreate, nil)
}

// Snapshot returns the serializable page state
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Page) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        p.id,
		Mode:      p.mode,
		AgentID:   p.agentID,
		Draft:     p.draft.Clone(),
		State:     p.state,
		Loading:   p.loading,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

func (p *Page) observe(s Snapshot) {
	if p.deps.Observer != nil {
		p.deps.Observer(s)
	}
}

// mutate applies fn to the draft under the page lock
func (p *Page) mutate(key string, fn func(d *model.AgentDraft) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateDone {
		return ErrPageClosed
	}
	if isDisabled(p.mode, key) {
		return fmt.Errorf("%s: %w", key, ErrFieldDisabled)
	}
	if err := fn(p.draft); err != nil {
		return err
	}
	p.updatedAt = time.Now()
	return nil
}

func (p *Page) SetName(v string) error {
	return p.mutate(model.FieldName, func(d *model.AgentDraft) error {
		d.Name = v
		return nil
	})
}

func (p *Page) SetIP(v string) error {
	return p.mutate(model.FieldIP, func(d *model.AgentDraft) error {
		d.IP = strings.TrimSpace(v)
		return nil
	})
}

func (p *Page) SetImage(v string) error {
	return p.mutate(model.FieldImage, func(d *model.AgentDraft) error {
		d.Image = strings.TrimSpace(v)
		return nil
	})
}

// SetCapacity clamps v into the accepted range; nil clears the field
func (p *Page) SetCapacity(v *int) error {
	return p.mutate(model.FieldCapacity, func(d *model.AgentDraft) error {
		d.Capacity = clamp(v, constants.MinAgentCapacity, constants.MaxAgentCapacity)
		return nil
	})
}

// SetNodeCapacity clamps v into the accepted range; nil clears the field
func (p *Page) SetNodeCapacity(v *int) error {
	return p.mutate(model.FieldNodeCapacity, func(d *model.AgentDraft) error {
		d.NodeCapacity = clamp(v, constants.MinNodeCapacity, constants.MaxNodeCapacity)
		return nil
	})
}

func (p *Page) SetType(v string) error {
	return p.mutate(model.FieldType, func(d *model.AgentDraft) error {
		t := constants.AgentType(v)
		if !t.IsValid() {
			return fmt.Errorf("type %q: %w", v, ErrInvalidOption)
		}
		d.Type = t
		return nil
	})
}

func (p *Page) SetLogLevel(v string) error {
	return p.mutate(model.FieldLogLevel, func(d *model.AgentDraft) error {
		l := constants.LogLevel(v)
		if !l.IsValid() {
			return fmt.Errorf("log_level %q: %w", v, ErrInvalidOption)
		}
		d.LogLevel = l
		return nil
	})
}

func (p *Page) SetSchedulable(v *bool) error {
	return p.mutate(model.FieldSchedulable, func(d *model.AgentDraft) error {
		if v == nil {
			d.Schedulable = nil
			return nil
		}
		b := *v
		d.Schedulable = &b
		return nil
	})
}

// SelectConfigFile replaces any previously selected config file
func (p *Page) SelectConfigFile(f *model.ConfigFile) error {
	return p.mutate(model.FieldConfigFile, func(d *model.AgentDraft) error {
		if f == nil {
			d.ConfigFile = nil
			return nil
		}
		file := *f
		d.ConfigFile = &file
		return nil
	})
}

// RemoveConfigFile clears the selected config file
func (p *Page) RemoveConfigFile() error {
	return p.SelectConfigFile(nil)
}

func clamp(v *int, min, max int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return &n
}

// Validate runs every field rule and returns a localized *ValidationError on failure
func (p *Page) Validate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.validateLocked()
}

func (p *Page) validateLocked() error {
	if p.draft == nil {
		return ErrPageClosed
	}
	err := ValidateDraft(p.mode, p.draft)
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Localize(p.deps.Localizer)
	}
	return err
}

// submission operation prepared by a valid submit
type submission struct {
	mode    model.FormMode
	agentID string
	draft   *model.AgentDraft
}

// prepare validates synchronously and moves the page to submitting
func (p *Page) prepare(ctx context.Context) (*submission, error) {
	p.mu.Lock()
	if p.state == StateDone {
		p.mu.Unlock()
		return nil, ErrPageClosed
	}
	if err := p.validateLocked(); err != nil {
		p.mu.Unlock()
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.InfoCtx(ctx, "agent form page %s submit blocked, first invalid field: %s (%s)",
				p.id, verr.First().Field, verr.First().Code)
		}
		return nil, err
	}

	sub := &submission{mode: p.mode, agentID: p.agentID, draft: p.draft.Clone()}
	p.state = StateSubmitting
	if p.mode == model.FormModeEdit {
		p.loading.Updating = true
	} else {
		p.loading.Submitting = true
	}
	p.updatedAt = time.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.observe(snap)
	return sub, nil
}

// Submit validates the draft, invokes the create or update operation and waits for completion.
// Validation failures return *ValidationError and no operation is invoked.
// Operation failures are reported through the Outcome, the page stays editable.
func (p *Page) Submit(ctx context.Context) (*Outcome, error) {
	sub, err := p.prepare(ctx)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, sub), nil
}

// SubmitAsync validates synchronously, then runs the operation on a goroutine and calls done on completion
func (p *Page) SubmitAsync(ctx context.Context, done func(*Outcome)) error {
	sub, err := p.prepare(ctx)
	if err != nil {
		return err
	}
	go func() {
		out := p.run(ctx, sub)
		if done != nil {
			done(out)
		}
	}()
	return nil
}

func (p *Page) run(ctx context.Context, sub *submission) *Outcome {
	if sub.mode == model.FormModeEdit {
		return p.runUpdate(ctx, sub)
	}
	return p.runCreate(ctx, sub)
}

func (p *Page) runCreate(ctx context.Context, sub *submission) *Outcome {
	payload := BuildCreatePayload(sub.draft)
	logger.InfoCtx(ctx, "agent form page %s creating agent, name: %s, ip: %s, type: %s, config_file: %t",
		p.id, payload.Get(model.FieldName), payload.Get(model.FieldIP), payload.Get(model.FieldType), payload.ConfigFile != nil)

	result, err := p.deps.Service.CreateAgent(ctx, payload)
	return p.completeCreate(ctx, payload, result, err)
}

// completeCreate handles the create completion: notify, then navigate on success
func (p *Page) completeCreate(ctx context.Context, payload *model.AgentPayload, result *model.CreateAgentResult, err error) *Outcome {
	params := map[string]interface{}{"name": payload.Get(model.FieldName)}
	out := &Outcome{Mode: model.FormModeCreate}

	p.mu.Lock()
	p.loading.Submitting = false
	if err == nil && result.Created() {
		p.state = StateDone
		p.draft = nil
		out.Succeeded = true
		out.AgentID = result.ID
		out.Redirect = constants.AgentListPath
		out.Notification = &Notification{Level: NotificationSuccess, Message: resolve(p.deps.Localizer, MsgCreateSuccess, params)}
	} else {
		if p.state != StateDone {
			p.state = StateEditing
		}
		out.Notification = &Notification{Level: NotificationFailure, Message: resolve(p.deps.Localizer, MsgCreateFail, params)}
		if err != nil {
			out.Error = err.Error()
		}
	}
	p.updatedAt = time.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.observe(snap)

	if out.Succeeded {
		logger.InfoCtx(ctx, "agent form page %s created agent %s", p.id, out.AgentID)
		if p.deps.Notifier != nil {
			p.deps.Notifier.NotifySuccess(ctx, out.Notification.Message)
		}
		if p.deps.Navigator != nil {
			p.deps.Navigator.NavigateTo(ctx, out.Redirect)
		}
	} else {
		logger.WarnCtx(ctx, "agent form page %s create failed: %v", p.id, err)
		if p.deps.Notifier != nil {
			p.deps.Notifier.NotifyFailure(ctx, out.Notification.Message)
		}
	}
	return out
}

func (p *Page) runUpdate(ctx context.Context, sub *submission) *Outcome {
	// TODO: send the draft fields once the agent service update contract is settled
	logger.WarnCtx(ctx, "agent form page %s updating agent %q with an empty payload", p.id, sub.agentID)

	err := p.deps.Service.UpdateAgent(ctx, sub.agentID, BuildUpdatePayload(sub.draft))
	out := &Outcome{Mode: model.FormModeEdit, AgentID: sub.agentID, Succeeded: err == nil}
	if err != nil {
		logger.ErrorCtx(ctx, "agent form page %s update agent %q failed: %v", p.id, sub.agentID, err)
		out.Error = err.Error()
	}

	p.mu.Lock()
	p.loading.Updating = false
	if p.state != StateDone {
		p.state = StateEditing
	}
	p.updatedAt = time.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.observe(snap)
	return out
}

// Cancel discards the draft and navigates to the agent list without confirmation
func (p *Page) Cancel(ctx context.Context) {
	p.mu.Lock()
	if p.state == StateDone {
		p.mu.Unlock()
		return
	}
	p.state = StateDone
	p.draft = nil
	p.updatedAt = time.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.observe(snap)
	logger.DebugCtx(ctx, "agent form page %s cancelled", p.id)
	if p.deps.Navigator != nil {
		p.deps.Navigator.NavigateTo(ctx, constants.AgentListPath)
	}
}

func resolve(l interfaces.Localizer, id string, params map[string]interface{}) string {
	text := DefaultText(id)
	if l != nil {
		return l.Resolve(id, text, params)
	}
	for k, v := range params {
		text = strings.ReplaceAll(text, "{{."+k+"}}", fmt.Sprint(v))
	}
	return text
}
