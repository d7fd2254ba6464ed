// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package setup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
)

func testPVC(name, capacity string) corev1.PersistentVolumeClaim {
	return corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "apps"},
		Status: corev1.PersistentVolumeClaimStatus{
			Capacity: corev1.ResourceList{corev1.ResourceStorage: resource.MustParse(capacity)},
		},
	}
}

func testQuerySet() *QuerySet {
	return &QuerySet{
		RootDiscovery: cluster.Resolve(cluster.RootInfo{GitVersion: "v1.29.3"}, nil),
		Pipelines:     cluster.Resolve([]string{"existing-pipeline"}, nil),
		StorageClasses: cluster.Resolve([]storagev1.StorageClass{
			{ObjectMeta: metav1.ObjectMeta{Name: "slow"}},
			{ObjectMeta: metav1.ObjectMeta{
				Name:        "standard",
				Annotations: map[string]string{"storageclass.kubernetes.io/is-default-class": "true"},
			}},
		}, nil),
		PVCs: cluster.Resolve([]corev1.PersistentVolumeClaim{
			testPVC("a", "10Gi"),
			testPVC("b", "5Gi"),
			testPVC("c", "20Gi"),
		}, nil),
	}
}

func submitCredentials(f *Forms, q *QuerySet, url, token string) {
	f.APIURL.Set(url)
	f.Token.Set(token)
	q.Secret = cluster.BuildSecret("crane", cluster.Credentials{APIURL: url, Token: token})
}

func TestInitialFormsAreClean(t *testing.T) {
	t.Parallel()

	f := New(testQuerySet())
	assert.False(t, f.IsSomeFormDirty())
	for _, g := range f.Groups() {
		assert.False(t, g.IsDirty(), "group %s", g.Name())
	}
}

func TestIsSomeFormDirty(t *testing.T) {
	t.Parallel()

	f := New(testQuerySet())
	f.PipelineName.Set("demo")
	assert.True(t, f.IsSomeFormDirty())

	f.PipelineName.Set("")
	assert.False(t, f.IsSomeFormDirty())
}

func TestSelectionCleanAfterDeselectingEverything(t *testing.T) {
	t.Parallel()

	f := New(testQuerySet())
	f.SelectedPVCs.Set([]string{"a"})
	require.True(t, f.IsSomeFormDirty())

	// An empty selection is the initial selection, whether it arrives as
	// nil or as a drained slice.
	f.SelectedPVCs.Set([]string{})
	assert.False(t, f.SelectedPVCs.IsDirty())
	assert.False(t, f.IsSomeFormDirty())
}

func TestCredentialsFailWhileRootDiscoveryLoading(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	q.RootDiscovery = q.RootDiscovery.Pending()
	f := New(q)

	f.APIURL.Set("https://api.src.example.com:6443")
	f.Token.Set("sha256~abc")

	assert.False(t, f.APIURL.IsValid())
	require.NotEmpty(t, f.APIURL.Errors())
	assert.Equal(t, "Checking cluster connection...", f.APIURL.Errors()[0])
	assert.False(t, f.Token.IsValid())
}

func TestCredentialsExactFailureMessage(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	f := New(q)
	submitCredentials(f, q, "https://api.src.example.com:6443", "sha256~abc")

	// The submitted credentials failed root discovery.
	q.RootDiscovery = cluster.Resolve(cluster.RootInfo{}, errors.New("unauthorized"))
	f.RootDiscoveryChanged()

	require.NotEmpty(t, f.APIURL.Errors())
	assert.Equal(t, "Cannot connect using these credentials", f.APIURL.Errors()[0])
	assert.Equal(t, "Cannot connect using these credentials", f.Token.Errors()[0])

	// Discovery succeeded: same secret, now valid.
	q.RootDiscovery = cluster.Resolve(cluster.RootInfo{GitVersion: "v1.29.3"}, nil)
	f.RootDiscoveryChanged()
	assert.True(t, f.APIURL.IsValid())
	assert.True(t, f.Token.IsValid())
}

func TestCredentialsNeverTestedAreNotFlagged(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	q.RootDiscovery = cluster.Resolve(cluster.RootInfo{}, errors.New("unauthorized"))
	f := New(q)

	// The user types credentials that were never submitted: the stored
	// secret does not embed them, so no failure is shown.
	f.APIURL.Set("https://api.src.example.com:6443")
	f.Token.Set("sha256~never-submitted")

	assert.True(t, f.APIURL.IsValid())
	assert.True(t, f.Token.IsValid())
}

func TestNamespaceSchemaTwoPhaseBuild(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	f := New(q)

	// Placeholder phase: only the required check applies.
	f.SourceNamespace.Set("ghost")
	assert.True(t, f.SourceNamespace.IsValid())

	// Probe completes negatively; schema is rebound to the real rule.
	q.NamespaceProbe = cluster.Resolve(cluster.NamespaceCheck{
		Usable: false,
		Reason: `namespace "ghost" not found or not accessible`,
	}, nil)
	f.NamespaceProbeChanged()

	assert.False(t, f.SourceNamespace.IsValid())
	require.NotEmpty(t, f.SourceNamespace.Errors())
	assert.Contains(t, f.SourceNamespace.Errors()[0], "ghost")

	// Probe turns positive after the user fixes the name.
	f.SourceNamespace.Set("apps")
	q.NamespaceProbe = cluster.Resolve(cluster.NamespaceCheck{Usable: true}, nil)
	f.NamespaceProbeChanged()
	assert.True(t, f.SourceNamespace.IsValid())
}

func TestNamespaceProbePendingIsNotYetValid(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	f := New(q)
	f.SourceNamespace.Set("apps")

	q.NamespaceProbe = cluster.Snapshot[cluster.NamespaceCheck]{Loading: true}
	f.NamespaceProbeChanged()

	assert.False(t, f.SourceNamespace.IsValid())
	assert.Equal(t, "Checking namespace...", f.SourceNamespace.Errors()[0])
}

func TestStatefulDerivations(t *testing.T) {
	t.Parallel()

	f := New(testQuerySet())
	f.PipelineName.Set("demo")

	assert.False(t, f.IsStatefulMigration())
	assert.Equal(t, "demo-stage", f.StagePipelineName())
	assert.Equal(t, "demo", f.CutoverPipelineName())

	f.SelectedPVCs.Set([]string{"a"})
	assert.True(t, f.IsStatefulMigration())
	assert.True(t, f.HasMultiplePipelines())
	assert.Equal(t, "demo-stage", f.StagePipelineName())
	assert.Equal(t, "demo-cutover", f.CutoverPipelineName())
}

func TestPipelineNameCollisions(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	q.Pipelines = cluster.Resolve([]string{"demo", "other-stage", "other-cutover"}, nil)
	f := New(q)

	f.PipelineName.Set("demo")
	assert.False(t, f.PipelineName.IsValid())
	assert.Contains(t, f.PipelineName.Errors()[0], `"demo" already exists`)

	// Stateful mode checks the suffixed names instead of the base name.
	f.SelectedPVCs.Set([]string{"a"})
	f.PipelineSettings.Revalidate()
	assert.True(t, f.PipelineName.IsValid(), "plain name collides but suffixed names do not")

	f.PipelineName.Set("other")
	assert.False(t, f.PipelineName.IsValid())
	assert.Contains(t, f.PipelineName.Errors()[0], `"other-cutover" already exists`)
}

func TestPipelineNameFormatAndPendingList(t *testing.T) {
	t.Parallel()

	q := testQuerySet()
	f := New(q)

	f.PipelineName.Set("Not_A_Valid_Name")
	assert.False(t, f.PipelineName.IsValid())

	f.PipelineName.Set("ok-name")
	assert.True(t, f.PipelineName.IsValid())

	q.Pipelines = q.Pipelines.Pending()
	f.PipelineListChanged()
	assert.False(t, f.PipelineName.IsValid())
	assert.Equal(t, "Checking existing pipelines...", f.PipelineName.Errors()[0])
}

func TestReviewYAMLValidation(t *testing.T) {
	t.Parallel()

	f := New(testQuerySet())
	f.PipelineName.Set("demo")

	// Cutover variants are required, stage variants are not.
	assert.True(t, f.StagePipelineYAML.IsValid())
	assert.False(t, f.CutoverPipelineYAML.IsValid())
	assert.False(t, f.CutoverPipelineRunYAML.IsValid())

	f.CutoverPipelineYAML.Set("apiVersion: tekton.dev/v1beta1\nkind: Pipeline\n")
	assert.True(t, f.CutoverPipelineYAML.IsValid())

	f.CutoverPipelineYAML.Set("kind: [unclosed")
	assert.False(t, f.CutoverPipelineYAML.IsValid())
	assert.Contains(t, f.CutoverPipelineYAML.Errors()[0], "demo Pipeline")

	// The label tracks the derived name as the mode changes.
	f.SelectedPVCs.Set([]string{"a"})
	f.Review.Revalidate()
	assert.Contains(t, f.CutoverPipelineYAML.Errors()[0], "demo-cutover Pipeline")
}
