// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/JaydipGabani/crane-migration-wizard/internal/sessionlog"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/manifests"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/setup"
)

// Wizard steps
const (
	StepCredentials = iota
	StepSelectPVCs
	StepPipelineSettings
	StepReview
)

// Credential input indexes
const (
	inputAPIURL = iota
	inputToken
	inputNamespace
)

// PVC edit-row input indexes
const (
	editInputTargetName = iota
	editInputStorageClass
	editInputCapacity
	editInputVerify // checkbox, no textinput behind it
)

// Review panes, in display order.
const (
	paneStagePipeline = iota
	paneStagePipelineRun
	paneCutoverPipeline
	paneCutoverPipelineRun
)

// queryTimeout bounds every cluster call issued from a tea.Cmd.
const queryTimeout = 15 * time.Second

// WizardModel is the bubbletea model for the migration setup wizard.
type WizardModel struct {
	// Navigation state
	step int

	// Form state and the query snapshots its schemas read
	queries *setup.QuerySet
	forms   *setup.Forms

	// Cluster clients
	host          *cluster.Client
	hostNamespace string
	source        *cluster.Client

	// Step 1: credential inputs
	inputs []textinput.Model
	focus  int

	// Step 2: PVC selection + per-row editing
	pvcCursor    int
	editingClaim string
	editRow      *setup.PVCEditRowForm
	editInputs   []textinput.Model
	editFocus    int

	// Step 3: pipeline name input
	nameInput textinput.Model

	// Step 4: review panes
	reviewPane int
	viewport   viewport.Model
	savedDir   string

	// UI components
	spinner spinner.Model
	width   int
	height  int

	// Loading states
	loading        bool
	loadingMessage string
	err            error

	// Result
	quit bool

	// Help overlay
	showHelp bool

	log *sessionlog.Logger
}

// NewWizardModel creates a wizard bound to the host cluster.
func NewWizardModel(host *cluster.Client, hostNamespace string, log *sessionlog.Logger) WizardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	queries := &setup.QuerySet{}
	forms := setup.New(queries)

	url := textinput.New()
	url.Placeholder = "https://api.source.example.com:6443"
	url.Prompt = ""
	url.Focus()

	token := textinput.New()
	token.Placeholder = "service account token"
	token.Prompt = ""
	token.EchoMode = textinput.EchoPassword

	namespace := textinput.New()
	namespace.Placeholder = "namespace to migrate"
	namespace.Prompt = ""

	name := textinput.New()
	name.Placeholder = "my-migration"
	name.Prompt = ""

	return WizardModel{
		step:          StepCredentials,
		queries:       queries,
		forms:         forms,
		host:          host,
		hostNamespace: hostNamespace,
		inputs:        []textinput.Model{url, token, namespace},
		nameInput:     name,
		viewport:      viewport.New(80, 20),
		spinner:       s,
		log:           log,
	}
}

// Init initializes the model
func (m WizardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Message types for the wizard
type connectResultMsg struct {
	client *cluster.Client
	secret *corev1.Secret
	root   cluster.Snapshot[cluster.RootInfo]
}

type namespaceProbeMsg struct {
	snap cluster.Snapshot[cluster.NamespaceCheck]
}

type sourceDataMsg struct {
	pvcs    cluster.Snapshot[[]corev1.PersistentVolumeClaim]
	classes cluster.Snapshot[[]storagev1.StorageClass]
}

type pipelineListMsg struct {
	snap cluster.Snapshot[[]string]
}

type manifestsReadyMsg struct {
	set manifests.Set
	err error
}

type manifestsSavedMsg struct {
	dir string
	err error
}

type editorFinishedMsg struct {
	pane int
	path string
	err  error
}

// Update handles messages
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quit = true
			return m, tea.Quit
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.loading {
			if msg.Type == tea.KeyEsc {
				m.quit = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - 10

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case connectResultMsg:
		m.source = msg.client
		m.queries.Secret = msg.secret
		m.queries.RootDiscovery = msg.root
		m.forms.RootDiscoveryChanged()
		if msg.root.Ready() {
			m.log.WithField("version", msg.root.Data.GitVersion).Info("source cluster reachable")
			m.loadingMessage = "Inspecting source namespace..."
			return m, tea.Batch(m.probeNamespaceCmd(), m.loadPipelinesCmd())
		}
		m.log.WithError(msg.root.Err).Warn("source cluster unreachable")
		m.loading = false

	case namespaceProbeMsg:
		m.queries.NamespaceProbe = msg.snap
		m.forms.NamespaceProbeChanged()
		if msg.snap.Ready() && msg.snap.Data.Usable {
			m.loadingMessage = "Loading source volumes..."
			return m, m.loadSourceDataCmd()
		}
		m.loading = false

	case sourceDataMsg:
		m.queries.PVCs = msg.pvcs
		m.queries.StorageClasses = msg.classes
		m.forms.SourceDataChanged()
		m.loading = false
		if m.forms.Credentials.IsValid() && msg.pvcs.Ready() {
			m.log.WithField("pvcs", len(msg.pvcs.Data)).Info("source namespace inspected")
			m.step = StepSelectPVCs
		} else if msg.pvcs.Err != nil {
			m.err = msg.pvcs.Err
		}

	case pipelineListMsg:
		m.queries.Pipelines = msg.snap
		m.forms.PipelineListChanged()

	case manifestsReadyMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.applyGeneratedManifests(msg.set)
		m.step = StepReview
		m.reviewPane = m.firstVisiblePane()
		m.syncViewport()

	case manifestsSavedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.savedDir = msg.dir
		m.log.WithField("dir", msg.dir).Info("manifests saved")

	case editorFinishedMsg:
		defer os.Remove(msg.path)
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		raw, err := os.ReadFile(msg.path)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.reviewField(msg.pane).Set(string(raw))
		m.syncViewport()
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses per step once global keys are handled.
func (m WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry contexts must receive '?' as input, not as the help key.
	typing := m.step == StepCredentials || m.step == StepPipelineSettings || m.editingClaim != ""
	if msg.String() == "?" && !typing {
		m.showHelp = true
		return m, nil
	}
	m.err = nil

	switch m.step {
	case StepCredentials:
		return m.handleCredentialsKey(msg)
	case StepSelectPVCs:
		if m.editingClaim != "" {
			return m.handleEditRowKey(msg)
		}
		return m.handleSelectKey(msg)
	case StepPipelineSettings:
		return m.handleNameKey(msg)
	case StepReview:
		return m.handleReviewKey(msg)
	}
	return m, nil
}

func (m WizardModel) handleCredentialsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.quit = true
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		return m.focusCredentialInput(m.focus + 1)

	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusCredentialInput(m.focus - 1)

	case tea.KeyEnter:
		if m.focus < inputNamespace {
			return m.focusCredentialInput(m.focus + 1)
		}
		if m.sourceReady() && m.forms.Credentials.IsValid() {
			m.step = StepSelectPVCs
			return m, nil
		}
		if !m.forms.TypedCredentials().IsComplete() || m.forms.SourceNamespace.Value() == "" {
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Connecting to source cluster..."
		m.queries.RootDiscovery = m.queries.RootDiscovery.Pending()
		m.queries.NamespaceProbe = cluster.Snapshot[cluster.NamespaceCheck]{Loading: true}
		m.forms.RootDiscoveryChanged()
		m.log.Section("connect source cluster")
		return m, tea.Batch(m.spinner.Tick, m.connectSourceCmd())
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncCredentialField(m.focus)
	return m, cmd
}

// focusCredentialInput moves focus between the three credential inputs.
func (m WizardModel) focusCredentialInput(target int) (tea.Model, tea.Cmd) {
	if target < inputAPIURL {
		target = inputNamespace
	}
	if target > inputNamespace {
		target = inputAPIURL
	}
	m.inputs[m.focus].Blur()
	m.focus = target
	return m, m.inputs[m.focus].Focus()
}

// syncCredentialField mirrors an input's text into its form field so the
// schemas see every edit.
func (m *WizardModel) syncCredentialField(index int) {
	value := m.inputs[index].Value()
	switch index {
	case inputAPIURL:
		if m.forms.APIURL.Value() != value {
			m.forms.APIURL.Set(value)
		}
	case inputToken:
		if m.forms.Token.Value() != value {
			m.forms.Token.Set(value)
		}
	case inputNamespace:
		if m.forms.SourceNamespace.Value() != value {
			m.forms.SourceNamespace.Set(value)
		}
	}
}

func (m WizardModel) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pvcs := m.queries.PVCs.Data

	switch msg.String() {
	case "q", "esc":
		m.quit = true
		return m, tea.Quit

	case "backspace":
		m.step = StepCredentials
		return m, nil

	case "up", "k":
		if m.pvcCursor > 0 {
			m.pvcCursor--
		}

	case "down", "j":
		if m.pvcCursor < len(pvcs)-1 {
			m.pvcCursor++
		}

	case " ":
		if m.pvcCursor < len(pvcs) {
			m.forms.SelectedPVCs.Set(toggleClaim(m.forms.SelectedPVCs.Value(), pvcs[m.pvcCursor].Name))
		}

	case "a":
		if len(m.forms.SelectedPVCs.Value()) == len(pvcs) {
			m.forms.SelectedPVCs.Set(nil)
		} else {
			all := make([]string, 0, len(pvcs))
			for _, pvc := range pvcs {
				all = append(all, pvc.Name)
			}
			m.forms.SelectedPVCs.Set(all)
		}

	case "e":
		if m.pvcCursor < len(pvcs) {
			name := pvcs[m.pvcCursor].Name
			if _, selected := m.forms.EditValuesByPVC.Value()[name]; selected {
				return m.openEditRow(name), nil
			}
		}

	case "r":
		m.loading = true
		m.loadingMessage = "Refreshing source volumes..."
		return m, m.loadSourceDataCmd()

	case "enter":
		m.step = StepPipelineSettings
		m.nameInput.SetValue(m.forms.PipelineName.Value())
		return m, m.nameInput.Focus()
	}
	return m, nil
}

// openEditRow builds the row form for one claim and enters edit mode.
func (m WizardModel) openEditRow(claimName string) WizardModel {
	values := m.forms.EditValuesByPVC.Value()[claimName]
	m.forms.SetEditMode(claimName, true)
	m.editingClaim = claimName
	m.editRow = m.forms.NewPVCEditRowForm(claimName, values)

	target := textinput.New()
	target.Prompt = ""
	target.SetValue(values.TargetPVCName)
	target.Focus()

	class := textinput.New()
	class.Prompt = ""
	class.Placeholder = "(keep claim's storage class)"
	class.SetValue(values.StorageClass)

	capacity := textinput.New()
	capacity.Prompt = ""
	capacity.SetValue(values.Capacity)

	m.editInputs = []textinput.Model{target, class, capacity}
	m.editFocus = editInputTargetName
	return m
}

func (m WizardModel) handleEditRowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.forms.SetEditMode(m.editingClaim, false)
		m.editingClaim = ""
		m.editRow = nil
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		return m.focusEditInput(m.editFocus + 1)

	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusEditInput(m.editFocus - 1)

	case tea.KeyEnter:
		if !m.editRow.Group.IsValid() {
			return m, nil
		}
		m.forms.SetEditValues(m.editingClaim, m.editRow.Values())
		m.forms.SetEditMode(m.editingClaim, false)
		m.log.WithField("pvc", m.editingClaim).Info("edit values saved")
		m.editingClaim = ""
		m.editRow = nil
		return m, nil
	}

	if m.editFocus == editInputVerify {
		if msg.String() == " " || msg.String() == "v" {
			m.editRow.VerifyCopy.Set(!m.editRow.VerifyCopy.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	m.syncEditField(m.editFocus)
	return m, cmd
}

func (m WizardModel) focusEditInput(target int) (tea.Model, tea.Cmd) {
	if target < editInputTargetName {
		target = editInputVerify
	}
	if target > editInputVerify {
		target = editInputTargetName
	}
	if m.editFocus < editInputVerify {
		m.editInputs[m.editFocus].Blur()
	}
	m.editFocus = target
	if target < editInputVerify {
		return m, m.editInputs[target].Focus()
	}
	return m, nil
}

func (m *WizardModel) syncEditField(index int) {
	value := m.editInputs[index].Value()
	switch index {
	case editInputTargetName:
		if m.editRow.TargetPVCName.Value() != value {
			m.editRow.TargetPVCName.Set(value)
		}
	case editInputStorageClass:
		if m.editRow.StorageClass.Value() != value {
			m.editRow.StorageClass.Set(value)
		}
	case editInputCapacity:
		if m.editRow.Capacity.Value() != value {
			m.editRow.Capacity.Set(value)
		}
	}
}

func (m WizardModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.quit = true
		return m, tea.Quit

	case tea.KeyBackspace:
		if m.nameInput.Value() == "" {
			m.step = StepSelectPVCs
			return m, nil
		}

	case tea.KeyEnter:
		if !m.forms.PipelineSettings.IsValid() {
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Generating manifests..."
		m.log.Section("generate manifests")
		return m, tea.Batch(m.spinner.Tick, m.generateManifestsCmd())
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	if m.forms.PipelineName.Value() != m.nameInput.Value() {
		m.forms.PipelineName.Set(m.nameInput.Value())
	}
	return m, cmd
}

func (m WizardModel) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quit = true
		return m, tea.Quit

	case "backspace":
		m.step = StepPipelineSettings
		return m, nil

	case "tab", "right", "l":
		m.reviewPane = m.nextVisiblePane(1)
		m.syncViewport()

	case "shift+tab", "left", "h":
		m.reviewPane = m.nextVisiblePane(-1)
		m.syncViewport()

	case "e":
		return m, m.openEditorCmd(m.reviewPane)

	case "s":
		m.loading = true
		m.loadingMessage = "Writing manifests..."
		return m, tea.Batch(m.spinner.Tick, m.saveManifestsCmd())

	case "enter":
		if m.forms.Review.IsValid() {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// sourceReady reports whether the source namespace data needed by the PVC
// step has arrived.
func (m WizardModel) sourceReady() bool {
	return m.queries.PVCs.Ready() && m.queries.StorageClasses.Ready()
}

// toggleClaim flips one claim in the ordered selection. Removing the
// last claim yields nil, the same value an untouched selection holds.
func toggleClaim(selected []string, name string) []string {
	for i, existing := range selected {
		if existing == name {
			if len(selected) == 1 {
				return nil
			}
			out := make([]string, 0, len(selected)-1)
			out = append(out, selected[:i]...)
			return append(out, selected[i+1:]...)
		}
	}
	out := make([]string, len(selected), len(selected)+1)
	copy(out, selected)
	return append(out, name)
}

// applyGeneratedManifests (re)initializes the review fields from a fresh
// generation unless the user has already edited them.
func (m *WizardModel) applyGeneratedManifests(set manifests.Set) {
	if m.forms.Review.IsDirty() {
		return
	}
	m.forms.StagePipelineYAML.Reinitialize(set.StagePipeline)
	m.forms.StagePipelineRunYAML.Reinitialize(set.StagePipelineRun)
	m.forms.CutoverPipelineYAML.Reinitialize(set.CutoverPipeline)
	m.forms.CutoverPipelineRunYAML.Reinitialize(set.CutoverPipelineRun)
	m.forms.Review.Revalidate()
}

// Commands

func (m WizardModel) connectSourceCmd() tea.Cmd {
	creds := m.forms.TypedCredentials()
	host := m.host
	hostNamespace := m.hostNamespace
	return func() tea.Msg {
		client, err := cluster.Connect(creds)
		if err != nil {
			return connectResultMsg{root: cluster.Resolve(cluster.RootInfo{}, err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		info, err := client.DiscoverRoot(ctx)
		secret := cluster.BuildSecret(hostNamespace, creds)
		if err == nil && host != nil {
			created, createErr := host.Kube.CoreV1().Secrets(hostNamespace).Create(ctx, secret, metav1.CreateOptions{})
			if createErr == nil {
				secret = created
			}
		}
		return connectResultMsg{client: client, secret: secret, root: cluster.Resolve(info, err)}
	}
}

func (m WizardModel) probeNamespaceCmd() tea.Cmd {
	source := m.source
	namespace := m.forms.SourceNamespace.Value()
	touched := m.forms.SourceNamespace.IsTouched()
	return func() tea.Msg {
		if source == nil || !touched {
			return namespaceProbeMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		check, err := source.ProbeNamespace(ctx, namespace)
		return namespaceProbeMsg{snap: cluster.Resolve(check, err)}
	}
}

func (m WizardModel) loadSourceDataCmd() tea.Cmd {
	source := m.source
	namespace := m.forms.SourceNamespace.Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		pvcs, pvcErr := source.ListPVCs(ctx, namespace)
		classes, classErr := source.ListStorageClasses(ctx)
		return sourceDataMsg{
			pvcs:    cluster.Resolve(pvcs, pvcErr),
			classes: cluster.Resolve(classes, classErr),
		}
	}
}

func (m WizardModel) loadPipelinesCmd() tea.Cmd {
	host := m.host
	namespace := m.hostNamespace
	return func() tea.Msg {
		if host == nil {
			return pipelineListMsg{snap: cluster.Resolve[[]string](nil, nil)}
		}
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		names, err := host.ListPipelineNames(ctx, namespace)
		return pipelineListMsg{snap: cluster.Resolve(names, err)}
	}
}

// buildPlan snapshots the forms into a manifest-generation plan.
func (m WizardModel) buildPlan() manifests.Plan {
	plan := manifests.Plan{
		Namespace:       m.hostNamespace,
		SourceNamespace: m.forms.SourceNamespace.Value(),
		StageName:       m.forms.StagePipelineName(),
		CutoverName:     m.forms.CutoverPipelineName(),
		Stateful:        m.forms.IsStatefulMigration(),
	}
	if m.queries.Secret != nil {
		plan.SecretName = m.queries.Secret.Name
	}
	values := m.forms.EditValuesByPVC.Value()
	for _, claimName := range m.forms.SelectedPVCs.Value() {
		v := values[claimName]
		plan.PVCs = append(plan.PVCs, manifests.PVCTransfer{
			SourceName:   claimName,
			TargetName:   v.TargetPVCName,
			StorageClass: v.StorageClass,
			Capacity:     v.Capacity,
			VerifyCopy:   v.VerifyCopy,
		})
	}
	return plan
}

func (m WizardModel) generateManifestsCmd() tea.Cmd {
	plan := m.buildPlan()
	return func() tea.Msg {
		set, err := manifests.Generate(plan)
		return manifestsReadyMsg{set: set, err: err}
	}
}

func (m WizardModel) saveManifestsCmd() tea.Cmd {
	dir := m.forms.PipelineName.Value() + "-manifests"
	files := map[string]string{
		"stage-pipeline.yaml":      m.forms.StagePipelineYAML.Value(),
		"stage-pipelinerun.yaml":   m.forms.StagePipelineRunYAML.Value(),
		"cutover-pipeline.yaml":    m.forms.CutoverPipelineYAML.Value(),
		"cutover-pipelinerun.yaml": m.forms.CutoverPipelineRunYAML.Value(),
	}
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return manifestsSavedMsg{err: fmt.Errorf("create manifest dir: %w", err)}
		}
		for name, content := range files {
			if strings.TrimSpace(content) == "" {
				continue
			}
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return manifestsSavedMsg{err: fmt.Errorf("write %s: %w", path, err)}
			}
		}
		return manifestsSavedMsg{dir: dir}
	}
}

// openEditorCmd hands one review pane to $EDITOR and reads it back.
func (m WizardModel) openEditorCmd(pane int) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	file, err := os.CreateTemp("", "crane-wizard-*.yaml")
	if err != nil {
		return func() tea.Msg { return editorFinishedMsg{pane: pane, err: err} }
	}
	content := m.reviewField(pane).Value()
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return func() tea.Msg { return editorFinishedMsg{pane: pane, path: file.Name(), err: err} }
	}
	file.Close()

	cmd := exec.Command(editor, file.Name())
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{pane: pane, path: file.Name(), err: err}
	})
}
