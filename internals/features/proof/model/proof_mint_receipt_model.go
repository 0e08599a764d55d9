package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/*
Mapping status (SMALLINT):
0 = pending
1 = minted
2 = failed
*/
type MintStatus int16

const (
	MintPending MintStatus = 0
	MintMinted  MintStatus = 1
	MintFailed  MintStatus = 2
)

// Kuitansi hasil mint proof cNFT. Murni catatan side-channel:
// check-in TIDAK pernah bergantung pada baris ini.
type ProofMintReceiptModel struct {
	ProofMintReceiptID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:proof_mint_receipt_id" json:"proof_mint_receipt_id"`

	ProofMintReceiptOwnerKey      string `gorm:"type:varchar(64);not null;column:proof_mint_receipt_owner_key;index:idx_pmr_owner" json:"proof_mint_receipt_owner_key"`
	ProofMintReceiptScopeAddress  string `gorm:"type:varchar(64);not null;column:proof_mint_receipt_scope_address;index:idx_pmr_scope" json:"proof_mint_receipt_scope_address"`
	ProofMintReceiptStatus        MintStatus `gorm:"type:smallint;not null;column:proof_mint_receipt_status" json:"proof_mint_receipt_status"`
	ProofMintReceiptSignature     *string `gorm:"column:proof_mint_receipt_signature" json:"proof_mint_receipt_signature,omitempty"`
	ProofMintReceiptFailureReason *string `gorm:"column:proof_mint_receipt_failure_reason" json:"proof_mint_receipt_failure_reason,omitempty"`

	// Snapshot metadata yang dipakai saat mint
	ProofMintReceiptMetadata datatypes.JSON `gorm:"type:jsonb;column:proof_mint_receipt_metadata" json:"proof_mint_receipt_metadata,omitempty"`

	ProofMintReceiptCreatedAt time.Time  `gorm:"column:proof_mint_receipt_created_at;autoCreateTime" json:"proof_mint_receipt_created_at"`
	ProofMintReceiptUpdatedAt *time.Time `gorm:"column:proof_mint_receipt_updated_at;autoUpdateTime" json:"proof_mint_receipt_updated_at,omitempty"`
}

func (ProofMintReceiptModel) TableName() string {
	return "proof_mint_receipts"
}
