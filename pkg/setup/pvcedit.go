// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package setup

import (
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/form"
)

// PVCEditRowValues are the per-claim edit values, one instance per
// selected claim, keyed by claim name in the edit-values map.
type PVCEditRowValues struct {
	TargetPVCName string
	StorageClass  string
	Capacity      string
	VerifyCopy    bool
}

// defaultEditValues builds the initial edit values for a newly selected
// claim: its own name as target, the default storage class or empty, and
// its current capacity.
func (f *Forms) defaultEditValues(claimName string) PVCEditRowValues {
	values := PVCEditRowValues{
		TargetPVCName: claimName,
		StorageClass:  cluster.DefaultStorageClassName(f.queries.StorageClasses.Data),
	}
	if pvc, ok := f.queries.ClaimByName(claimName); ok {
		values.Capacity = cluster.PVCCapacity(pvc)
	}
	return values
}

// reconcileEditState rebuilds both per-claim maps from a new selection.
// Replacement is wholesale, not a merge: survivors carry their existing
// edit values over unchanged, deselected claims are dropped, new claims
// get defaults, and every row leaves edit mode. Invariant: afterwards the
// key sets of both maps equal the selected-claim name set exactly.
func (f *Forms) reconcileEditState(selected []string) {
	prior := f.EditValuesByPVC.Value()

	modes := make(map[string]bool, len(selected))
	values := make(map[string]PVCEditRowValues, len(selected))
	for _, name := range selected {
		modes[name] = false
		if v, ok := prior[name]; ok {
			values[name] = v
			continue
		}
		values[name] = f.defaultEditValues(name)
	}

	f.EditModeByPVC.Reinitialize(modes)
	f.EditValuesByPVC.Reinitialize(values)
}

// SetEditMode toggles the edit flag for one selected claim.
func (f *Forms) SetEditMode(claimName string, editing bool) {
	if _, ok := f.EditModeByPVC.Value()[claimName]; !ok {
		return
	}
	modes := make(map[string]bool, len(f.EditModeByPVC.Value()))
	for k, v := range f.EditModeByPVC.Value() {
		modes[k] = v
	}
	modes[claimName] = editing
	f.EditModeByPVC.Set(modes)
}

// SetEditValues stores edited row values for one selected claim.
func (f *Forms) SetEditValues(claimName string, rowValues PVCEditRowValues) {
	if _, ok := f.EditValuesByPVC.Value()[claimName]; !ok {
		return
	}
	values := make(map[string]PVCEditRowValues, len(f.EditValuesByPVC.Value()))
	for k, v := range f.EditValuesByPVC.Value() {
		values[k] = v
	}
	values[claimName] = rowValues
	f.EditValuesByPVC.Set(values)
}

// PVCEditRowForm is the form state for one claim's edit row: four
// independently validated fields. Rows share no mutable state.
type PVCEditRowForm struct {
	Group *form.Group

	TargetPVCName *form.Field[string]
	StorageClass  *form.Field[string]
	Capacity      *form.Field[string]
	VerifyCopy    *form.Field[bool]
}

// NewPVCEditRowForm builds the edit form for one selected claim from its
// current edit values. Target-name uniqueness is checked against the live
// claim-name set, excluding the row's own source claim so the default
// (same name) passes.
func (f *Forms) NewPVCEditRowForm(claimName string, values PVCEditRowValues) *PVCEditRowForm {
	row := &PVCEditRowForm{
		TargetPVCName: form.NewField("targetPvcName", values.TargetPVCName, f.targetNameSchema(claimName)),
		StorageClass:  form.NewField("storageClass", values.StorageClass, f.storageClassSchema()),
		Capacity:      form.NewField("capacity", values.Capacity, capacitySchema()),
		VerifyCopy:    form.NewField("verifyCopy", values.VerifyCopy, form.Bool().Label("Verify copy").Required()),
	}
	row.Group = form.NewGroup("pvcEditRow",
		row.TargetPVCName, row.StorageClass, row.Capacity, row.VerifyCopy)
	return row
}

// Values snapshots the current field values back into row values.
func (r *PVCEditRowForm) Values() PVCEditRowValues {
	return PVCEditRowValues{
		TargetPVCName: r.TargetPVCName.Value(),
		StorageClass:  r.StorageClass.Value(),
		Capacity:      r.Capacity.Value(),
		VerifyCopy:    r.VerifyCopy.Value(),
	}
}

func (f *Forms) targetNameSchema(claimName string) *form.Schema[string] {
	return form.String().Label("Target PVC name").Required().
		Test("format", func(v string, ctx form.TestContext) error {
			if msgs := validation.IsDNS1123Subdomain(v); len(msgs) > 0 {
				return ctx.Errorf("must consist of lower case letters, numbers and dashes")
			}
			return nil
		}).
		Test("unique", func(v string, ctx form.TestContext) error {
			if v == claimName {
				return nil
			}
			for _, existing := range f.queries.ClaimNames() {
				if v == existing {
					return ctx.Errorf("collides with an existing claim")
				}
			}
			return nil
		})
}

func (f *Forms) storageClassSchema() *form.Schema[string] {
	return form.String().Label("Storage class").
		Test("exists", func(v string, ctx form.TestContext) error {
			// Empty keeps the claim's class; an unloaded list cannot be
			// checked against.
			if v == "" || !f.queries.StorageClasses.Loaded {
				return nil
			}
			for _, sc := range f.queries.StorageClasses.Data {
				if sc.Name == v {
					return nil
				}
			}
			return ctx.Errorf("%q does not exist on this cluster", v)
		})
}

func capacitySchema() *form.Schema[string] {
	return form.String().Label("Capacity").Required().
		Test("quantity", func(v string, ctx form.TestContext) error {
			if _, err := resource.ParseQuantity(v); err != nil {
				return ctx.Errorf("%q is not a valid quantity", v)
			}
			return nil
		})
}
