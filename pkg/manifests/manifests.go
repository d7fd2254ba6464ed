// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package manifests renders the Tekton Pipeline and PipelineRun YAML the
// wizard presents on its review step. Rendering is deterministic so the
// review fields stay clean until the user actually edits them.
package manifests

import (
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"
)

const (
	tektonAPIVersion = "tekton.dev/v1beta1"

	// Task names used by the generated pipelines.
	taskGenerateKubeconfig = "generate-source-kubeconfig"
	taskExport             = "export"
	taskTransform          = "transform"
	taskApply              = "apply"
	taskTransferPVC        = "transfer-pvc"
)

// PVCTransfer describes one selected claim and its edit values.
type PVCTransfer struct {
	SourceName   string
	TargetName   string
	StorageClass string
	Capacity     string
	VerifyCopy   bool
}

// Plan is the input to manifest generation, assembled from the wizard
// forms once its groups validate.
type Plan struct {
	// Namespace is the host namespace the pipelines are created in.
	Namespace string
	// SourceNamespace is the namespace being migrated.
	SourceNamespace string
	// SecretName is the host-cluster secret embedding source credentials.
	SecretName string
	// StageName and CutoverName are the derived pipeline names.
	StageName   string
	CutoverName string
	// Stateful selects the two-pipeline scheme; when false only the
	// cutover pair is generated.
	Stateful bool
	PVCs     []PVCTransfer
}

// Set holds the four review blobs. Stage entries are empty for stateless
// plans.
type Set struct {
	StagePipeline      string
	StagePipelineRun   string
	CutoverPipeline    string
	CutoverPipelineRun string
}

// Generate renders the full manifest set for a plan.
func Generate(plan Plan) (Set, error) {
	var out Set

	cutover, err := renderYAML(cutoverPipeline(plan))
	if err != nil {
		return Set{}, fmt.Errorf("render cutover pipeline: %w", err)
	}
	out.CutoverPipeline = cutover

	cutoverRun, err := renderYAML(pipelineRun(plan, plan.CutoverName))
	if err != nil {
		return Set{}, fmt.Errorf("render cutover pipelinerun: %w", err)
	}
	out.CutoverPipelineRun = cutoverRun

	if !plan.Stateful {
		return out, nil
	}

	stage, err := renderYAML(stagePipeline(plan))
	if err != nil {
		return Set{}, fmt.Errorf("render stage pipeline: %w", err)
	}
	out.StagePipeline = stage

	stageRun, err := renderYAML(pipelineRun(plan, plan.StageName))
	if err != nil {
		return Set{}, fmt.Errorf("render stage pipelinerun: %w", err)
	}
	out.StagePipelineRun = stageRun

	return out, nil
}

func renderYAML(obj map[string]any) (string, error) {
	raw, err := yaml.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func pipelineMeta(plan Plan, name string) map[string]any {
	return map[string]any{
		"name":      name,
		"namespace": plan.Namespace,
		"labels": map[string]any{
			"crane-wizard/source-namespace": plan.SourceNamespace,
		},
	}
}

// cutoverPipeline moves the workloads: export from the source, transform,
// apply on the host.
func cutoverPipeline(plan Plan) map[string]any {
	tasks := []map[string]any{
		kubeconfigTask(plan),
		craneTask(taskExport, []string{taskGenerateKubeconfig}, plan),
		craneTask(taskTransform, []string{taskExport}, plan),
		craneTask(taskApply, []string{taskTransform}, plan),
	}
	return map[string]any{
		"apiVersion": tektonAPIVersion,
		"kind":       "Pipeline",
		"metadata":   pipelineMeta(plan, plan.CutoverName),
		"spec": map[string]any{
			"params": commonParams(),
			"tasks":  tasks,
		},
	}
}

// stagePipeline pre-copies persistent volumes so the cutover window stays
// short. One transfer task per selected claim, in claim-name order.
func stagePipeline(plan Plan) map[string]any {
	tasks := []map[string]any{kubeconfigTask(plan)}

	pvcs := make([]PVCTransfer, len(plan.PVCs))
	copy(pvcs, plan.PVCs)
	sort.Slice(pvcs, func(i, j int) bool { return pvcs[i].SourceName < pvcs[j].SourceName })

	for _, pvc := range pvcs {
		tasks = append(tasks, transferTask(pvc))
	}

	return map[string]any{
		"apiVersion": tektonAPIVersion,
		"kind":       "Pipeline",
		"metadata":   pipelineMeta(plan, plan.StageName),
		"spec": map[string]any{
			"params": commonParams(),
			"tasks":  tasks,
		},
	}
}

func commonParams() []map[string]any {
	return []map[string]any{
		{"name": "source-cluster-secret", "type": "string"},
		{"name": "source-namespace", "type": "string"},
	}
}

func kubeconfigTask(plan Plan) map[string]any {
	return map[string]any{
		"name":    taskGenerateKubeconfig,
		"taskRef": map[string]any{"name": "crane-kubeconfig-generator", "kind": "ClusterTask"},
		"params": []map[string]any{
			{"name": "cluster-secret", "value": plan.SecretName},
		},
	}
}

func craneTask(name string, after []string, plan Plan) map[string]any {
	return map[string]any{
		"name":     name,
		"runAfter": after,
		"taskRef":  map[string]any{"name": "crane-" + name, "kind": "ClusterTask"},
		"params": []map[string]any{
			{"name": "src-namespace", "value": plan.SourceNamespace},
		},
	}
}

func transferTask(pvc PVCTransfer) map[string]any {
	return map[string]any{
		"name":     taskTransferPVC + "-" + pvc.SourceName,
		"runAfter": []string{taskGenerateKubeconfig},
		"taskRef":  map[string]any{"name": "crane-" + taskTransferPVC, "kind": "ClusterTask"},
		"params": []map[string]any{
			{"name": "source-pvc-name", "value": pvc.SourceName},
			{"name": "dest-pvc-name", "value": pvc.TargetName},
			{"name": "dest-storage-class-name", "value": pvc.StorageClass},
			{"name": "dest-pvc-capacity", "value": pvc.Capacity},
			{"name": "verify-copy", "value": fmt.Sprintf("%t", pvc.VerifyCopy)},
		},
	}
}

// pipelineRun wraps a pipeline in a run the user can kick off as-is.
func pipelineRun(plan Plan, pipelineName string) map[string]any {
	return map[string]any{
		"apiVersion": tektonAPIVersion,
		"kind":       "PipelineRun",
		"metadata": map[string]any{
			"generateName": pipelineName + "-",
			"namespace":    plan.Namespace,
		},
		"spec": map[string]any{
			"pipelineRef": map[string]any{"name": pipelineName},
			"params": []map[string]any{
				{"name": "source-cluster-secret", "value": plan.SecretName},
				{"name": "source-namespace", "value": plan.SourceNamespace},
			},
			"status": "PipelineRunPending",
		},
	}
}
