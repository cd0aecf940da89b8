package model

import "time"

// PackageInfo is the decoded descriptor of the application package.
type PackageInfo struct {
	Package     string   `json:"package"`
	Label       string   `json:"label,omitempty"`
	TargetSDK   int      `json:"targetSdk,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Activities  []string `json:"activities,omitempty"`
}

// RenameMapping records a namespace rename: the old fully-qualified
// package identity and the generated (or explicitly supplied) new one.
type RenameMapping struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// FeatureResult is the ledger delta one feature produced.
type FeatureResult struct {
	Feature string `json:"feature"`
	Ledger  Ledger `json:"ledger"`
}

// PatchReport is the persisted summary of one full patch run.
type PatchReport struct {
	Input     string          `json:"input"`
	Output    string          `json:"output,omitempty"`
	Package   PackageInfo     `json:"package"`
	Features  []FeatureResult `json:"features"`
	Totals    Ledger          `json:"totals"`
	Rename    *RenameMapping  `json:"rename,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Total folds every feature delta into one ledger.
func (r PatchReport) Total() Ledger {
	var total Ledger
	for _, fr := range r.Features {
		total = total.Merge(fr.Ledger)
	}

	return total
}
