// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/JaydipGabani/crane-migration-wizard/internal/sessionlog"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/manifests"
)

// testWizardModel creates a base WizardModel with static test data. No
// cluster clients are attached, so tests drive Update with messages
// directly instead of letting commands run.
func testWizardModel(t *testing.T) WizardModel {
	t.Helper()
	log, err := sessionlog.New("wizard-test", t.TempDir())
	if err != nil {
		t.Fatalf("create session log: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	m := NewWizardModel(nil, "openshift-migration", log)
	m.width = 80
	m.height = 24
	return m
}

func testPVC(name, size string) corev1.PersistentVolumeClaim {
	return corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.PersistentVolumeClaimStatus{
			Capacity: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse(size),
			},
		},
	}
}

// testModelConnected returns a model that has already passed the
// credentials step: source data resolved, forms notified.
func testModelConnected(t *testing.T) WizardModel {
	t.Helper()
	m := testWizardModel(t)

	m.forms.APIURL.Set("https://api.source.example.com:6443")
	m.forms.Token.Set("sha256~abcdef")
	m.forms.SourceNamespace.Set("my-app")

	m.queries.RootDiscovery = cluster.Resolve(cluster.RootInfo{GitVersion: "v1.29.3", Platform: "linux/amd64"}, nil)
	m.queries.NamespaceProbe = cluster.Resolve(cluster.NamespaceCheck{Usable: true}, nil)
	m.queries.PVCs = cluster.Resolve([]corev1.PersistentVolumeClaim{
		testPVC("postgres-data", "10Gi"),
		testPVC("uploads", "2Gi"),
	}, nil)
	m.queries.StorageClasses = cluster.Resolve([]storagev1.StorageClass{
		{ObjectMeta: metav1.ObjectMeta{Name: "gp2"}},
		{ObjectMeta: metav1.ObjectMeta{Name: "standard"}},
	}, nil)
	m.queries.Pipelines = cluster.Resolve([]string{"existing"}, nil)
	m.forms.RootDiscoveryChanged()
	m.forms.NamespaceProbeChanged()
	m.forms.SourceDataChanged()
	m.forms.PipelineListChanged()

	m.step = StepSelectPVCs
	return m
}

// pressKey runs one key through Update and returns the updated model.
func pressKey(t *testing.T, m WizardModel, key tea.KeyMsg) WizardModel {
	t.Helper()
	updated, _ := m.Update(key)
	next, ok := updated.(WizardModel)
	if !ok {
		t.Fatalf("Update returned %T, want WizardModel", updated)
	}
	return next
}

func pressRune(t *testing.T, m WizardModel, r rune) WizardModel {
	t.Helper()
	return pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeString(t *testing.T, m WizardModel, s string) WizardModel {
	t.Helper()
	for _, r := range s {
		m = pressRune(t, m, r)
	}
	return m
}

func sendMsg(t *testing.T, m WizardModel, msg tea.Msg) WizardModel {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(WizardModel)
	if !ok {
		t.Fatalf("Update returned %T, want WizardModel", updated)
	}
	return next
}

// --- Step 1: Source Cluster ---

func TestWizardCredentialsView(t *testing.T) {
	m := testWizardModel(t)
	view := m.View()

	if !containsString(view, "Source Cluster") {
		t.Error("expected view to contain 'Source Cluster' header")
	}
	if !containsString(view, "Cluster API URL") {
		t.Error("expected view to contain the API URL label")
	}
	if !containsString(view, "Service account token") {
		t.Error("expected view to contain the token label")
	}
}

func TestWizardCredentialsTypingSyncsForm(t *testing.T) {
	m := testWizardModel(t)

	m = typeString(t, m, "https://api")
	if got := m.forms.APIURL.Value(); got != "https://api" {
		t.Errorf("expected apiUrl field %q, got %q", "https://api", got)
	}
	if !m.forms.APIURL.IsTouched() {
		t.Error("expected apiUrl field to be touched after typing")
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != inputToken {
		t.Errorf("expected focus on token input, got %d", m.focus)
	}
	m = typeString(t, m, "secret")
	if got := m.forms.Token.Value(); got != "secret" {
		t.Errorf("expected token field %q, got %q", "secret", got)
	}
}

func TestWizardCredentialsTokenMasked(t *testing.T) {
	m := testWizardModel(t)
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(t, m, "sha256~topsecret")

	if containsString(m.View(), "topsecret") {
		t.Error("token must not appear in the rendered view")
	}
}

func TestWizardConnectFlowAdvancesToSelection(t *testing.T) {
	m := testWizardModel(t)
	m.forms.APIURL.Set("https://api.source.example.com:6443")
	m.forms.Token.Set("sha256~abcdef")
	m.forms.SourceNamespace.Set("my-app")
	m.loading = true

	creds := m.forms.TypedCredentials()
	secret := cluster.BuildSecret("openshift-migration", creds)
	secret.Name = "crane-source-x7k2p"

	m = sendMsg(t, m, connectResultMsg{
		secret: secret,
		root:   cluster.Resolve(cluster.RootInfo{GitVersion: "v1.29.3"}, nil),
	})
	if !m.loading {
		t.Fatal("expected model to keep loading while the namespace probe runs")
	}

	m = sendMsg(t, m, namespaceProbeMsg{snap: cluster.Resolve(cluster.NamespaceCheck{Usable: true}, nil)})
	m = sendMsg(t, m, pipelineListMsg{snap: cluster.Resolve([]string{}, nil)})
	m = sendMsg(t, m, sourceDataMsg{
		pvcs:    cluster.Resolve([]corev1.PersistentVolumeClaim{testPVC("data", "1Gi")}, nil),
		classes: cluster.Resolve([]storagev1.StorageClass{}, nil),
	})

	if m.loading {
		t.Error("expected loading to clear after source data arrives")
	}
	if m.step != StepSelectPVCs {
		t.Errorf("expected step %d, got %d", StepSelectPVCs, m.step)
	}
	if !m.forms.Credentials.IsValid() {
		t.Errorf("expected valid credentials group, got: %v", m.forms.Credentials.Err())
	}
}

func TestWizardConnectFailureStaysOnCredentials(t *testing.T) {
	m := testWizardModel(t)
	m.forms.APIURL.Set("https://api.source.example.com:6443")
	m.forms.Token.Set("bad-token")
	m.forms.SourceNamespace.Set("my-app")
	m.loading = true

	creds := m.forms.TypedCredentials()
	m.queries.Secret = cluster.BuildSecret("openshift-migration", creds)

	m = sendMsg(t, m, connectResultMsg{
		secret: m.queries.Secret,
		root:   cluster.Resolve(cluster.RootInfo{}, errors.New("401 unauthorized")),
	})

	if m.loading {
		t.Error("expected loading to clear on connection failure")
	}
	if m.step != StepCredentials {
		t.Errorf("expected to stay on credentials step, got %d", m.step)
	}
	if m.forms.Credentials.IsValid() {
		t.Error("expected credentials group to be invalid after failed connect")
	}
	if !containsString(m.View(), "Cannot connect using these credentials") {
		t.Error("expected the failure message in the view")
	}
}

// --- Step 2: Select Volumes ---

func TestWizardSelectToggle(t *testing.T) {
	m := testModelConnected(t)

	m = pressRune(t, m, ' ')
	if got := m.forms.SelectedPVCs.Value(); len(got) != 1 || got[0] != "postgres-data" {
		t.Fatalf("expected [postgres-data] selected, got %v", got)
	}
	if _, ok := m.forms.EditValuesByPVC.Value()["postgres-data"]; !ok {
		t.Error("expected edit values row for the selected claim")
	}

	m = pressRune(t, m, ' ')
	if got := m.forms.SelectedPVCs.Value(); len(got) != 0 {
		t.Fatalf("expected empty selection after second toggle, got %v", got)
	}
	if len(m.forms.EditValuesByPVC.Value()) != 0 {
		t.Error("expected edit values to drop with the selection")
	}
}

func TestWizardSelectToggleAll(t *testing.T) {
	m := testModelConnected(t)

	m = pressRune(t, m, 'a')
	if got := len(m.forms.SelectedPVCs.Value()); got != 2 {
		t.Fatalf("expected all 2 claims selected, got %d", got)
	}

	m = pressRune(t, m, 'a')
	if got := len(m.forms.SelectedPVCs.Value()); got != 0 {
		t.Fatalf("expected no claims selected, got %d", got)
	}
}

func TestWizardSelectViewShowsCapacity(t *testing.T) {
	m := testModelConnected(t)
	view := m.View()

	if !containsString(view, "postgres-data") || !containsString(view, "10Gi") {
		t.Error("expected claim name and capacity in the view")
	}
	if !containsString(view, "(0/2 selected)") {
		t.Error("expected selection count in the view")
	}
}

func TestWizardEditRowSaveAndCancel(t *testing.T) {
	m := testModelConnected(t)
	m = pressRune(t, m, ' ')
	m = pressRune(t, m, 'e')

	if m.editingClaim != "postgres-data" {
		t.Fatalf("expected to be editing postgres-data, got %q", m.editingClaim)
	}
	if !m.forms.EditModeByPVC.Value()["postgres-data"] {
		t.Error("expected edit mode flag to be set")
	}
	if got := m.editRow.TargetPVCName.Value(); got != "postgres-data" {
		t.Errorf("expected target name defaulted to source name, got %q", got)
	}

	// Rename the target claim and save.
	for range "postgres-data" {
		m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = typeString(t, m, "pg-migrated")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.editingClaim != "" {
		t.Fatal("expected edit mode to close after save")
	}
	if m.forms.EditModeByPVC.Value()["postgres-data"] {
		t.Error("expected edit mode flag cleared after save")
	}
	if got := m.forms.EditValuesByPVC.Value()["postgres-data"].TargetPVCName; got != "pg-migrated" {
		t.Errorf("expected saved target name pg-migrated, got %q", got)
	}

	// Reopen and cancel: the saved value must survive.
	m = pressRune(t, m, 'e')
	m = typeString(t, m, "-scratch")
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.forms.EditValuesByPVC.Value()["postgres-data"].TargetPVCName; got != "pg-migrated" {
		t.Errorf("expected cancel to keep pg-migrated, got %q", got)
	}
}

func TestWizardEditRowRejectsInvalidCapacity(t *testing.T) {
	m := testModelConnected(t)
	m = pressRune(t, m, ' ')
	m = pressRune(t, m, 'e')

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for range "10Gi" {
		m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = typeString(t, m, "lots")

	if m.editRow.Capacity.IsValid() {
		t.Fatal("expected capacity 'lots' to be invalid")
	}

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editingClaim == "" {
		t.Error("expected save to be blocked while the row is invalid")
	}
}

// --- Step 3: Pipeline Settings ---

func TestWizardPipelineNameFlow(t *testing.T) {
	m := testModelConnected(t)
	m = pressRune(t, m, ' ') // stateful migration
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.step != StepPipelineSettings {
		t.Fatalf("expected pipeline settings step, got %d", m.step)
	}

	m = typeString(t, m, "demo")
	if got := m.forms.PipelineName.Value(); got != "demo" {
		t.Errorf("expected pipeline name demo, got %q", got)
	}

	view := m.View()
	if !containsString(view, "demo-stage") || !containsString(view, "demo-cutover") {
		t.Error("expected both derived pipeline names in the view")
	}
}

func TestWizardPipelineNameCollisionBlocksEnter(t *testing.T) {
	m := testModelConnected(t)
	m.queries.Pipelines = cluster.Resolve([]string{"demo"}, nil)
	m.forms.PipelineListChanged()

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // stateless: cutover keeps the base name
	m = typeString(t, m, "demo")

	if m.forms.PipelineSettings.IsValid() {
		t.Fatal("expected name collision to invalidate the step")
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.step != StepPipelineSettings {
		t.Error("expected enter to be blocked on an invalid name")
	}
	if !containsString(m.View(), "already exists") {
		t.Error("expected collision message in the view")
	}
}

// --- Step 4: Review ---

// testModelReview walks a connected model to the review step with
// generated manifests applied.
func testModelReview(t *testing.T, stateful bool) WizardModel {
	t.Helper()
	m := testModelConnected(t)
	if stateful {
		m = pressRune(t, m, ' ')
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeString(t, m, "demo")

	set, err := manifests.Generate(m.buildPlan())
	if err != nil {
		t.Fatalf("generate manifests: %v", err)
	}
	return sendMsg(t, m, manifestsReadyMsg{set: set})
}

func TestWizardReviewStatefulShowsAllPanes(t *testing.T) {
	m := testModelReview(t, true)

	if m.step != StepReview {
		t.Fatalf("expected review step, got %d", m.step)
	}
	if m.reviewPane != paneStagePipeline {
		t.Errorf("expected the stage pipeline pane first, got %d", m.reviewPane)
	}
	view := m.View()
	if !containsString(view, "demo-stage Pipeline") || !containsString(view, "demo-cutover PipelineRun") {
		t.Error("expected stage and cutover pane titles in the view")
	}
	if m.forms.StagePipelineYAML.Value() == "" {
		t.Error("expected stage pipeline YAML to be populated")
	}
	if !m.forms.Review.IsValid() {
		t.Errorf("expected generated manifests to validate, got: %v", m.forms.Review.Err())
	}
}

func TestWizardReviewStatelessSkipsStagePanes(t *testing.T) {
	m := testModelReview(t, false)

	if m.reviewPane != paneCutoverPipeline {
		t.Errorf("expected the cutover pane first for stateless, got %d", m.reviewPane)
	}
	if containsString(m.View(), "demo-stage") {
		t.Error("expected no stage panes for a stateless migration")
	}

	// Cycling must only visit the two cutover panes.
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.reviewPane != paneCutoverPipelineRun {
		t.Errorf("expected cutover run pane, got %d", m.reviewPane)
	}
	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.reviewPane != paneCutoverPipeline {
		t.Errorf("expected to wrap back to the cutover pipeline pane, got %d", m.reviewPane)
	}
}

func TestWizardReviewGenerationKeepsUserEdits(t *testing.T) {
	m := testModelReview(t, false)

	m.forms.CutoverPipelineYAML.Set("kind: Pipeline # hand-edited")
	set, err := manifests.Generate(m.buildPlan())
	if err != nil {
		t.Fatalf("generate manifests: %v", err)
	}
	m = sendMsg(t, m, manifestsReadyMsg{set: set})

	if got := m.forms.CutoverPipelineYAML.Value(); got != "kind: Pipeline # hand-edited" {
		t.Error("expected regeneration to preserve the hand-edited manifest")
	}
}

func TestWizardReviewSavedDir(t *testing.T) {
	m := testModelReview(t, false)
	m = sendMsg(t, m, manifestsSavedMsg{dir: "demo-manifests"})

	if m.savedDir != "demo-manifests" {
		t.Errorf("expected savedDir demo-manifests, got %q", m.savedDir)
	}
	if !containsString(m.View(), "demo-manifests") {
		t.Error("expected the saved directory in the view")
	}
}

// --- Global behavior ---

func TestWizardHelpOverlayToggle(t *testing.T) {
	m := testModelConnected(t)

	m = pressRune(t, m, '?')
	if !containsString(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay after ?")
	}

	m = pressRune(t, m, 'x')
	if containsString(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected any key to close the help overlay")
	}
}

func TestWizardCtrlCQuits(t *testing.T) {
	m := testWizardModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if fm := updated.(WizardModel); !fm.quit {
		t.Error("expected quit flag set")
	}
}

func TestWizardDirtyIndicator(t *testing.T) {
	fresh := testWizardModel(t)
	if containsString(fresh.View(), "unsaved changes") {
		t.Error("expected no dirty indicator before any edits")
	}

	m := testModelConnected(t)
	m = pressRune(t, m, ' ')
	if !containsString(m.View(), "unsaved changes") {
		t.Error("expected dirty indicator after typing and selecting")
	}
}

func TestWizardSelectDeselectLeavesSelectionClean(t *testing.T) {
	m := testModelConnected(t)

	m = pressRune(t, m, ' ')
	m = pressRune(t, m, ' ')

	if m.forms.PVCSelect.IsDirty() {
		t.Error("expected the selection group clean after select then deselect")
	}
	if m.forms.PVCEdit.IsDirty() {
		t.Error("expected the edit group clean after select then deselect")
	}
}

func TestToggleClaimEmptiesToNil(t *testing.T) {
	selected := toggleClaim(nil, "a")
	if got := toggleClaim(selected, "a"); got != nil {
		t.Errorf("expected nil after removing the last claim, got %#v", got)
	}
}

func TestToggleClaimKeepsOrder(t *testing.T) {
	selected := toggleClaim(nil, "a")
	selected = toggleClaim(selected, "b")
	selected = toggleClaim(selected, "c")
	selected = toggleClaim(selected, "b")

	if len(selected) != 2 || selected[0] != "a" || selected[1] != "c" {
		t.Errorf("expected [a c], got %v", selected)
	}
}

// containsString checks whether haystack contains needle.
func containsString(haystack, needle string) bool {
	return len(haystack) > 0 && len(needle) > 0 && indexOf(haystack, needle) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
