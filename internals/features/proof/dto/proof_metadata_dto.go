package dto

/* =========================================================
   Dokumen metadata proof token
   =========================================================
   Statis per deployment, identik untuk semua mint.
*/

type ProofAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type ProofMetadata struct {
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Attributes  []ProofAttribute `json:"attributes"`
}

// DefaultProofMetadata: satu dokumen metadata untuk semua mint.
func DefaultProofMetadata() ProofMetadata {
	return ProofMetadata{
		Name:        "Proof of Presence",
		Symbol:      "POP",
		Description: "Compressed NFT proof of attendance.",
		Image:       "https://placehold.co/512x512/png",
		Attributes: []ProofAttribute{
			{TraitType: "Type", Value: "Attendance"},
		},
	}
}
