// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package setup

import (
	"errors"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/form"
)

// Pipeline name suffixes for stateful (multi-pipeline) migrations.
const (
	StageSuffix   = "-stage"
	CutoverSuffix = "-cutover"
)

// maxGeneratedNameLength bounds the longest generated pipeline name.
const maxGeneratedNameLength = 63

// checkingConnectionMsg is the not-yet-valid message while root discovery
// is in flight.
const checkingConnectionMsg = "Checking cluster connection..."

// badCredentialsMsg is shown only for credentials that were actually
// submitted against the cluster and failed.
const badCredentialsMsg = "Cannot connect using these credentials"

// Forms is the aggregate wizard form state: five independent field groups,
// one per step, plus the typed field handles the TUI edits through.
type Forms struct {
	Credentials      *form.Group
	PVCSelect        *form.Group
	PVCEdit          *form.Group
	PipelineSettings *form.Group
	Review           *form.Group

	APIURL          *form.Field[string]
	Token           *form.Field[string]
	SourceNamespace *form.Field[string]

	SelectedPVCs    *form.Field[[]string]
	EditModeByPVC   *form.Field[map[string]bool]
	EditValuesByPVC *form.Field[map[string]PVCEditRowValues]

	PipelineName *form.Field[string]

	StagePipelineYAML      *form.Field[string]
	StagePipelineRunYAML   *form.Field[string]
	CutoverPipelineYAML    *form.Field[string]
	CutoverPipelineRunYAML *form.Field[string]

	queries *QuerySet
}

// New assembles the wizard forms over a query set. Fields whose rules
// depend on query results that do not exist yet are declared with
// placeholder schemas and rebound by the *Changed triggers.
func New(queries *QuerySet) *Forms {
	f := &Forms{queries: queries}

	f.APIURL = form.NewField("apiUrl", "", nil)
	f.Token = form.NewField("token", "", nil)
	f.APIURL.SetSchema(f.credentialsSchema("Cluster API URL"))
	f.Token.SetSchema(f.credentialsSchema("Service account token"))

	// Placeholder until the namespace probe has run at least once.
	f.SourceNamespace = form.NewField("sourceNamespace", "",
		form.String().Label("Source namespace").Required())

	// Empty and nil selections are the same selection: deselecting every
	// claim must compare clean against the initial empty value.
	f.SelectedPVCs = form.NewField("selectedPVCs", []string(nil),
		form.Value[[]string](),
		form.WithOnChange[[]string](func(selected []string) { f.reconcileEditState(selected) }),
		form.WithEquals[[]string](func(a, b []string) bool {
			if len(a) == 0 && len(b) == 0 {
				return true
			}
			return reflect.DeepEqual(a, b)
		}))
	f.EditModeByPVC = form.NewField("isEditModeByPVCName",
		map[string]bool{}, form.Value[map[string]bool]())
	f.EditValuesByPVC = form.NewField("editValuesByPVCName",
		map[string]PVCEditRowValues{}, form.Value[map[string]PVCEditRowValues]())

	f.PipelineName = form.NewField("pipelineName", "", f.pipelineNameSchema())

	f.StagePipelineYAML = form.NewField("stagePipelineYAML", "",
		f.yamlSchema(false, func() string { return f.StagePipelineName() + " Pipeline" }))
	f.StagePipelineRunYAML = form.NewField("stagePipelineRunYAML", "",
		f.yamlSchema(false, func() string { return f.StagePipelineName() + " PipelineRun" }))
	f.CutoverPipelineYAML = form.NewField("cutoverPipelineYAML", "",
		f.yamlSchema(true, func() string { return f.CutoverPipelineName() + " Pipeline" }))
	f.CutoverPipelineRunYAML = form.NewField("cutoverPipelineRunYAML", "",
		f.yamlSchema(true, func() string { return f.CutoverPipelineName() + " PipelineRun" }))

	f.Credentials = form.NewGroup("clusterCredentials", f.APIURL, f.Token, f.SourceNamespace)
	f.PVCSelect = form.NewGroup("pvcSelection", f.SelectedPVCs)
	f.PVCEdit = form.NewGroup("pvcEdit", f.EditModeByPVC, f.EditValuesByPVC)
	f.PipelineSettings = form.NewGroup("pipelineSettings", f.PipelineName)
	f.Review = form.NewGroup("review",
		f.StagePipelineYAML, f.StagePipelineRunYAML,
		f.CutoverPipelineYAML, f.CutoverPipelineRunYAML)

	return f
}

// Groups returns the five step groups in wizard order.
func (f *Forms) Groups() []*form.Group {
	return []*form.Group{f.Credentials, f.PVCSelect, f.PVCEdit, f.PipelineSettings, f.Review}
}

// IsSomeFormDirty reports whether any step has unsaved user edits.
func (f *Forms) IsSomeFormDirty() bool {
	for _, g := range f.Groups() {
		if g.IsDirty() {
			return true
		}
	}
	return false
}

// TypedCredentials returns the credentials currently in the fields, which
// may differ from the stored secret until the user re-submits.
func (f *Forms) TypedCredentials() cluster.Credentials {
	return cluster.Credentials{APIURL: f.APIURL.Value(), Token: f.Token.Value()}
}

// CredentialsValid reports whether the typed credentials are known good
// against the live cluster.
func (f *Forms) CredentialsValid() bool {
	return cluster.CredentialsAreValid(f.queries.Secret, f.TypedCredentials(), f.queries.RootDiscovery)
}

// IsStatefulMigration reports whether any persistent-volume claims are
// selected, which switches the plan to the two-pipeline (stage + cutover)
// scheme.
func (f *Forms) IsStatefulMigration() bool {
	return len(f.SelectedPVCs.Value()) > 0
}

// HasMultiplePipelines aliases IsStatefulMigration; the naming scheme is
// the only consumer that cares about the distinction.
func (f *Forms) HasMultiplePipelines() bool {
	return f.IsStatefulMigration()
}

// StagePipelineName derives the stage pipeline name. Always suffixed, even
// when no stage pipeline will be created.
func (f *Forms) StagePipelineName() string {
	return f.PipelineName.Value() + StageSuffix
}

// CutoverPipelineName derives the cutover pipeline name: suffixed only in
// multi-pipeline mode, otherwise the plain name.
func (f *Forms) CutoverPipelineName() string {
	if f.HasMultiplePipelines() {
		return f.PipelineName.Value() + CutoverSuffix
	}
	return f.PipelineName.Value()
}

// Revalidation triggers. Schemas close over query state that is not a
// field value, so ordinary field-change triggers would miss these.

// RootDiscoveryChanged recomputes the credentials group after the root
// probe starts, completes or fails.
func (f *Forms) RootDiscoveryChanged() {
	f.Credentials.Revalidate()
}

// NamespaceProbeChanged rebinds the source-namespace schema to the current
// probe result and recomputes the credentials group.
func (f *Forms) NamespaceProbeChanged() {
	f.SourceNamespace.SetSchema(f.namespaceSchema())
	f.Credentials.Revalidate()
}

// PipelineListChanged recomputes pipeline-name validation against the
// refreshed name set.
func (f *Forms) PipelineListChanged() {
	f.PipelineSettings.Revalidate()
}

// SourceDataChanged recomputes the groups that read the PVC and
// storage-class snapshots.
func (f *Forms) SourceDataChanged() {
	f.PVCSelect.Revalidate()
	f.PVCEdit.Revalidate()
}

// credentialsSchema is the shared validity rule for the URL and token
// fields: two sequential checks, stopping at the first failure. An
// in-flight root probe is not-yet-valid rather than a hard failure, and
// the bad-credentials message only fires for credentials that were
// actually submitted (the stored secret embeds them).
func (f *Forms) credentialsSchema(label string) *form.Schema[string] {
	return form.String().Label(label).Required().
		Test("credentials", func(_ string, _ form.TestContext) error {
			if f.queries.RootDiscovery.Loading {
				return errors.New(checkingConnectionMsg)
			}
			if cluster.SecretMatchesCredentials(f.queries.Secret, f.TypedCredentials()) && !f.CredentialsValid() {
				return errors.New(badCredentialsMsg)
			}
			return nil
		})
}

// namespaceSchema is the query-aware rule bound once the namespace probe
// exists. The probe itself is keyed on the touched flag, so an untouched
// field stays on the required check alone.
func (f *Forms) namespaceSchema() *form.Schema[string] {
	return form.String().Label("Source namespace").Required().
		Test("usable", func(v string, ctx form.TestContext) error {
			if !f.SourceNamespace.IsTouched() {
				return nil
			}
			probe := f.queries.NamespaceProbe
			if probe.Loading || !probe.Loaded {
				return errors.New("Checking namespace...")
			}
			if probe.Err != nil {
				return ctx.Errorf("could not be verified")
			}
			if !probe.Data.Usable {
				if probe.Data.Reason != "" {
					return errors.New(probe.Data.Reason)
				}
				return ctx.Errorf("does not exist or is not usable")
			}
			return nil
		})
}

// pipelineNameSchema validates the base pipeline name: a DNS-1123
// subdomain short enough to carry the stage/cutover suffixes, with no
// collision against the live pipeline set including the derived names.
func (f *Forms) pipelineNameSchema() *form.Schema[string] {
	return form.String().Label("Pipeline name").Required().
		Test("format", func(v string, ctx form.TestContext) error {
			if msgs := validation.IsDNS1123Subdomain(v); len(msgs) > 0 {
				return ctx.Errorf("must consist of lower case letters, numbers and dashes")
			}
			budget := maxGeneratedNameLength
			if f.HasMultiplePipelines() {
				budget -= len(CutoverSuffix)
			}
			if len(v) > budget {
				return ctx.Errorf("must be no longer than %d characters", budget)
			}
			return nil
		}).
		Test("unique", func(v string, _ form.TestContext) error {
			pipelines := f.queries.Pipelines
			if pipelines.Loading || !pipelines.Loaded {
				return errors.New("Checking existing pipelines...")
			}
			existing := make(map[string]bool, len(pipelines.Data))
			for _, name := range pipelines.Data {
				existing[name] = true
			}
			candidates := []string{f.CutoverPipelineName()}
			if f.HasMultiplePipelines() {
				candidates = append(candidates, f.StagePipelineName())
			}
			for _, candidate := range candidates {
				if existing[candidate] {
					return fmt.Errorf("a pipeline named %q already exists", candidate)
				}
			}
			return nil
		})
}

// yamlSchema is the generic syntactic-YAML rule for the review fields,
// labeled with the current derived pipeline name so messages stay accurate
// as the name changes. The cutover variants are required, the stage
// variants are not.
func (f *Forms) yamlSchema(required bool, labelFn func() string) *form.Schema[string] {
	s := form.String().LabelFunc(labelFn)
	if required {
		s = s.Required()
	}
	return s.Test("valid-yaml", func(v string, ctx form.TestContext) error {
		if v == "" {
			return nil
		}
		var out any
		if err := yaml.Unmarshal([]byte(v), &out); err != nil {
			return ctx.Errorf("is not valid YAML")
		}
		return nil
	})
}
