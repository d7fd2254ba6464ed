// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/form"
)

// Wizard styles
var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				MarginBottom(1)

	wizardProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	wizardProgressBarFull = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	wizardProgressBarEmpty = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	wizardPaneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	wizardPaneActiveStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("212")).
				Padding(0, 1)

	wizardSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	wizardCheckboxOn = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	wizardCheckboxOff = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	wizardLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	wizardHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	wizardErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))

	wizardSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))
)

// stepNames are the lowercase step labels; the header title-cases them.
var stepNames = []string{"source cluster", "select volumes", "pipeline settings", "review"}

var titleCaser = cases.Title(language.English)

// View renders the wizard
func (m WizardModel) View() string {
	if m.quit {
		return ""
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(wizardErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(wizardHelpStyle.Render("Press esc to quit, or any key to retry"))
		return b.String()
	}

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.loadingMessage)
		return b.String()
	}

	switch m.step {
	case StepCredentials:
		b.WriteString(m.renderCredentials())
	case StepSelectPVCs:
		if m.editingClaim != "" {
			b.WriteString(m.renderEditRow())
		} else {
			b.WriteString(m.renderSelectPVCs())
		}
	case StepPipelineSettings:
		b.WriteString(m.renderPipelineSettings())
	case StepReview:
		b.WriteString(m.renderReview())
	}
	b.WriteString("\n")

	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the title and progress bar
func (m WizardModel) renderHeader() string {
	title := fmt.Sprintf("MIGRATION WIZARD - %s", titleCaser.String(stepNames[m.step]))

	totalSteps := len(stepNames)
	stepNum := m.step + 1

	progress := float64(stepNum) / float64(totalSteps)
	barWidth := 20
	filled := int(progress * float64(barWidth))
	empty := barWidth - filled

	progressBar := wizardProgressBarFull.Render(strings.Repeat("█", filled)) +
		wizardProgressBarEmpty.Render(strings.Repeat("░", empty))

	stepInfo := fmt.Sprintf("Step %d of %d", stepNum, totalSteps)

	dirty := ""
	if m.forms.IsSomeFormDirty() {
		dirty = "● unsaved changes"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		wizardTitleStyle.Render(title),
		"  ",
		progressBar,
		"  ",
		wizardProgressStyle.Render(stepInfo),
		"  ",
		wizardDimStyle.Render(dirty),
	)
}

// renderFieldErrors renders a field's messages, one per line.
func renderFieldErrors(f form.State) string {
	var b strings.Builder
	for _, msg := range f.Errors() {
		b.WriteString("  ")
		b.WriteString(wizardErrorStyle.Render(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m WizardModel) renderCredentials() string {
	var b strings.Builder

	labels := []string{"Cluster API URL", "Service account token", "Namespace"}
	for i, input := range m.inputs {
		label := labels[i]
		if i == m.focus {
			b.WriteString(wizardSelectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(wizardLabelStyle.Render(label))
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, f := range m.forms.Credentials.Fields() {
		if f.IsTouched() {
			b.WriteString(renderFieldErrors(f))
		}
	}

	if m.queries.RootDiscovery.Ready() {
		info := m.queries.RootDiscovery.Data
		b.WriteString(wizardSuccessStyle.Render(fmt.Sprintf("✓ Connected (%s %s)", info.Platform, info.GitVersion)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m WizardModel) renderSelectPVCs() string {
	var b strings.Builder

	pvcs := m.queries.PVCs.Data
	if len(pvcs) == 0 {
		b.WriteString(wizardDimStyle.Render("No persistent volume claims in this namespace."))
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Press enter to continue with a stateless migration."))
		return wizardPaneActiveStyle.Render(b.String())
	}

	selected := map[string]bool{}
	for _, name := range m.forms.SelectedPVCs.Value() {
		selected[name] = true
	}
	values := m.forms.EditValuesByPVC.Value()

	for i, pvc := range pvcs {
		cursor := "  "
		if i == m.pvcCursor {
			cursor = wizardSelectedStyle.Render("> ")
		}
		checkbox := wizardCheckboxOff.Render("[ ]")
		if selected[pvc.Name] {
			checkbox = wizardCheckboxOn.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s", cursor, checkbox, pvc.Name)

		detail := fmt.Sprintf("  %s", cluster.PVCCapacity(pvc))
		if v, ok := values[pvc.Name]; ok {
			if v.TargetPVCName != pvc.Name {
				detail += fmt.Sprintf("  → %s", v.TargetPVCName)
			}
			if v.StorageClass != "" {
				detail += fmt.Sprintf("  (%s)", v.StorageClass)
			}
		}
		b.WriteString(line)
		b.WriteString(wizardDimStyle.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(wizardDimStyle.Render(fmt.Sprintf("(%d/%d selected)", len(m.forms.SelectedPVCs.Value()), len(pvcs))))
	return wizardPaneActiveStyle.Render(b.String())
}

func (m WizardModel) renderEditRow() string {
	var b strings.Builder

	b.WriteString(wizardLabelStyle.Render(fmt.Sprintf("Edit migration of %q", m.editingClaim)))
	b.WriteString("\n\n")

	labels := []string{"Target PVC name", "Storage class", "Capacity"}
	fields := []form.State{m.editRow.TargetPVCName, m.editRow.StorageClass, m.editRow.Capacity}
	for i, input := range m.editInputs {
		if i == m.editFocus {
			b.WriteString(wizardSelectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(wizardLabelStyle.Render(labels[i]))
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n")
		b.WriteString(renderFieldErrors(fields[i]))
	}

	if m.editFocus == editInputVerify {
		b.WriteString(wizardSelectedStyle.Render("> "))
	} else {
		b.WriteString("  ")
	}
	checkbox := wizardCheckboxOff.Render("[ ]")
	if m.editRow.VerifyCopy.Value() {
		checkbox = wizardCheckboxOn.Render("[x]")
	}
	b.WriteString(fmt.Sprintf("%s Verify copy (checksum comparison, slower)", checkbox))
	b.WriteString("\n")

	return wizardPaneActiveStyle.Render(b.String())
}

func (m WizardModel) renderPipelineSettings() string {
	var b strings.Builder

	b.WriteString(wizardLabelStyle.Render("Pipeline name"))
	b.WriteString("\n  ")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(renderFieldErrors(m.forms.PipelineName))
	b.WriteString("\n")

	if m.forms.PipelineName.Value() != "" && m.forms.PipelineSettings.IsValid() {
		if m.forms.HasMultiplePipelines() {
			b.WriteString(wizardDimStyle.Render("Pipelines to create:"))
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("  %s  %s\n", wizardSuccessStyle.Render(m.forms.StagePipelineName()), wizardDimStyle.Render("(repeatable, app keeps running)")))
			b.WriteString(fmt.Sprintf("  %s  %s\n", wizardSuccessStyle.Render(m.forms.CutoverPipelineName()), wizardDimStyle.Render("(final migration)")))
		} else {
			b.WriteString(wizardDimStyle.Render("Pipeline to create:"))
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("  %s\n", wizardSuccessStyle.Render(m.forms.CutoverPipelineName())))
		}
	}

	return wizardPaneActiveStyle.Render(b.String())
}

// paneTitles returns the visible review panes with display titles.
func (m WizardModel) paneTitles() map[int]string {
	titles := map[int]string{
		paneCutoverPipeline:    m.forms.CutoverPipelineName() + " Pipeline",
		paneCutoverPipelineRun: m.forms.CutoverPipelineName() + " PipelineRun",
	}
	if m.forms.IsStatefulMigration() {
		titles[paneStagePipeline] = m.forms.StagePipelineName() + " Pipeline"
		titles[paneStagePipelineRun] = m.forms.StagePipelineName() + " PipelineRun"
	}
	return titles
}

func (m WizardModel) renderReview() string {
	var b strings.Builder

	titles := m.paneTitles()
	var tabs []string
	for pane := paneStagePipeline; pane <= paneCutoverPipelineRun; pane++ {
		title, ok := titles[pane]
		if !ok {
			continue
		}
		if !m.reviewField(pane).IsValid() {
			title = "! " + title
		}
		if pane == m.reviewPane {
			tabs = append(tabs, wizardSelectedStyle.Render(title))
		} else {
			tabs = append(tabs, wizardDimStyle.Render(title))
		}
	}
	b.WriteString(strings.Join(tabs, "  |  "))
	b.WriteString("\n")

	b.WriteString(wizardPaneActiveStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(renderFieldErrors(m.reviewField(m.reviewPane)))

	if m.savedDir != "" {
		b.WriteString(wizardSuccessStyle.Render(fmt.Sprintf("✓ Manifests written to %s/", m.savedDir)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHelp renders context-sensitive help
func (m WizardModel) renderHelp() string {
	var help string
	switch m.step {
	case StepCredentials:
		help = "tab: next field • enter: connect • esc: quit"
	case StepSelectPVCs:
		if m.editingClaim != "" {
			help = "tab: next field • enter: save • esc: cancel"
		} else {
			help = "space: toggle • a: toggle all • e: edit row • r: refresh • enter: continue • backspace: back • ?: help"
		}
	case StepPipelineSettings:
		help = "enter: generate manifests • backspace: back • esc: quit"
	case StepReview:
		help = "tab: next manifest • e: edit in $EDITOR • s: save to disk • enter: finish • backspace: back"
	}
	return wizardHelpStyle.Render(help)
}

// renderHelpOverlay renders a full-screen help overlay
func (m WizardModel) renderHelpOverlay() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Background(lipgloss.Color("236")).
		Padding(0, 2)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	b.WriteString(titleStyle.Render("MIGRATION WIZARD - KEYBOARD SHORTCUTS"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("GLOBAL"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("?    "), descStyle.Render("Toggle this help overlay")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("esc  "), descStyle.Render("Quit wizard (cancels row edit first)")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("⌫    "), descStyle.Render("Go back to previous step")))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("SOURCE CLUSTER (Step 1)"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("tab  "), descStyle.Render("Move between credential fields")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("enter"), descStyle.Render("Connect and inspect the namespace")))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("SELECT VOLUMES (Step 2)"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↑/k  "), descStyle.Render("Move cursor up")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↓/j  "), descStyle.Render("Move cursor down")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("space"), descStyle.Render("Toggle claim selection")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("a    "), descStyle.Render("Toggle all claims")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("e    "), descStyle.Render("Edit target name, storage class, capacity")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("r    "), descStyle.Render("Refresh claims from the cluster")))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("REVIEW (Step 4)"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("tab  "), descStyle.Render("Switch between manifests")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("e    "), descStyle.Render("Edit the current manifest in $EDITOR")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("s    "), descStyle.Render("Save manifests to disk")))
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("enter"), descStyle.Render("Finish")))

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true)
	b.WriteString(footerStyle.Render("Press ? or any key to close this help"))

	return b.String()
}

// Review pane helpers

func (m WizardModel) reviewField(pane int) *form.Field[string] {
	switch pane {
	case paneStagePipeline:
		return m.forms.StagePipelineYAML
	case paneStagePipelineRun:
		return m.forms.StagePipelineRunYAML
	case paneCutoverPipeline:
		return m.forms.CutoverPipelineYAML
	default:
		return m.forms.CutoverPipelineRunYAML
	}
}

// firstVisiblePane returns the first pane shown for this migration shape.
func (m WizardModel) firstVisiblePane() int {
	if m.forms.IsStatefulMigration() {
		return paneStagePipeline
	}
	return paneCutoverPipeline
}

// nextVisiblePane cycles through the panes that apply to this migration.
func (m WizardModel) nextVisiblePane(delta int) int {
	titles := m.paneTitles()
	pane := m.reviewPane
	for i := 0; i < 4; i++ {
		pane += delta
		if pane > paneCutoverPipelineRun {
			pane = paneStagePipeline
		}
		if pane < paneStagePipeline {
			pane = paneCutoverPipelineRun
		}
		if _, ok := titles[pane]; ok {
			return pane
		}
	}
	return m.reviewPane
}

// syncViewport loads the active pane's YAML into the viewport.
func (m *WizardModel) syncViewport() {
	m.viewport.SetContent(m.reviewField(m.reviewPane).Value())
	m.viewport.GotoTop()
}
