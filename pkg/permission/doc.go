// Package permission defines the fixed capability set used for tenant
// authorization and the merge rules that combine permissions along a role
// inheritance chain.
//
// A Set is a sparse map of permission keys to booleans. Keys absent from a
// Set fall back to the static defaults, which grant only the baseline view
// permissions. Sets are value objects: Merge and Clone always return new
// instances and never mutate their inputs.
//
// Merge is override-wins. Applied left-to-right along an inheritance chain,
// ancestors are merged first and each descendant's explicit entries replace
// the inherited values, allowing both elevation and restriction:
//
//	parent := permission.Set{permission.CanCreateProducts: true}
//	child := permission.Set{permission.CanCreateProducts: false}
//	eff := permission.Merge(parent, child) // canCreateProducts denied
//
// Caller-supplied permission maps must be validated at the boundary:
//
//	if err := input.Validate(); err != nil {
//	    // contains a key outside the fixed set
//	}
package permission
