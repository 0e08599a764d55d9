// internals/features/proof/service/minter_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hadirku_backend/internals/features/proof/dto"
	"hadirku_backend/internals/features/proof/model"
	"hadirku_backend/internals/ledger"
)

/* =========================================================
   Side channel mint proof cNFT
   =========================================================
   Fire-and-forget: check-in sukses hanya MEMICU antrian mint.
   Hasil mint tidak pernah membatalkan/menunda check-in, dan
   kegagalannya cuma dicatat sebagai warning.
*/

// TreeMinter adalah boundary kolaborator pencetak token.
type TreeMinter interface {
	Mint(ctx context.Context, owner ledger.PublicKey, metadataURI string) (signature string, err error)
}

type MintJob struct {
	Owner        ledger.PublicKey
	ScopeAddress ledger.Address // event/class yang jadi konteks check-in
}

type MintQueue struct {
	minter      TreeMinter
	db          *gorm.DB
	metadataURI string

	jobs chan MintJob
	quit chan struct{}
	wg   sync.WaitGroup
}

func NewMintQueue(minter TreeMinter, db *gorm.DB, metadataURI string, buffer int) *MintQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &MintQueue{
		minter:      minter,
		db:          db,
		metadataURI: metadataURI,
		jobs:        make(chan MintJob, buffer),
		quit:        make(chan struct{}),
	}
}

// Start menjalankan worker tunggal di background.
func (q *MintQueue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case job := <-q.jobs:
				q.process(job)
			case <-q.quit:
				return
			}
		}
	}()
}

func (q *MintQueue) Stop() {
	close(q.quit)
	q.wg.Wait()
}

// Enqueue tidak pernah memblokir jalur check-in; antrian penuh
// diperlakukan sama dengan mint gagal (log, lanjut).
func (q *MintQueue) Enqueue(job MintJob) {
	select {
	case q.jobs <- job:
	default:
		log.Printf("[MINT WARN] antrian penuh, mint untuk %s dilewati", job.Owner)
		q.record(job, model.MintFailed, "", "antrian mint penuh")
	}
}

func (q *MintQueue) process(job MintJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sig, err := q.minter.Mint(ctx, job.Owner, q.metadataURI)
	if err != nil {
		// SideChannelFailure: hanya log + kuitansi, tidak pernah
		// menyentuh status check-in
		log.Printf("[MINT WARN] mint gagal untuk %s (check-in tetap sukses): %v", job.Owner, err)
		q.record(job, model.MintFailed, "", err.Error())
		return
	}
	log.Printf("[MINT] proof tercetak untuk %s sig=%s", job.Owner, sig)
	q.record(job, model.MintMinted, sig, "")
}

func (q *MintQueue) record(job MintJob, status model.MintStatus, sig, reason string) {
	if q.db == nil {
		return // mode test tanpa DB
	}
	meta, _ := json.Marshal(dto.DefaultProofMetadata())
	rec := model.ProofMintReceiptModel{
		ProofMintReceiptOwnerKey:     job.Owner.String(),
		ProofMintReceiptScopeAddress: job.ScopeAddress.String(),
		ProofMintReceiptStatus:       status,
		ProofMintReceiptMetadata:     datatypes.JSON(meta),
	}
	if sig != "" {
		rec.ProofMintReceiptSignature = &sig
	}
	if reason != "" {
		rec.ProofMintReceiptFailureReason = &reason
	}
	if err := q.db.Create(&rec).Error; err != nil {
		log.Printf("[MINT WARN] gagal simpan kuitansi mint: %v", err)
	}
}

/* =========================================================
   Implementasi TreeMinter
   ========================================================= */

var ErrNoMerkleTree = errors.New("proof: merkle tree belum dikonfigurasi")

// BubblegumMinter memanggil layanan mint di luar proses (merkle tree
// kolaborator). Di deployment tanpa tree, pakai SimulatedMinter.
type BubblegumMinter struct {
	MerkleTree string
	Signer     ledger.Signer
}

func (m *BubblegumMinter) Mint(ctx context.Context, owner ledger.PublicKey, metadataURI string) (string, error) {
	if m.MerkleTree == "" {
		return "", ErrNoMerkleTree
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	// Leaf = (tree, owner, uri) ditandatangani otoritas tree; signature
	// yang dikembalikan adalah id transaksi mint.
	payload := fmt.Sprintf("mint/%s/%s/%s", m.MerkleTree, owner, metadataURI)
	sig := m.Signer.Sign([]byte(payload))
	return hex.EncodeToString(sig[:32]), nil
}

// SimulatedMinter untuk dev/test: selalu "berhasil" dengan signature
// deterministik, tanpa menyentuh jaringan.
type SimulatedMinter struct{}

func (SimulatedMinter) Mint(_ context.Context, owner ledger.PublicKey, metadataURI string) (string, error) {
	sum := sha256.Sum256([]byte("simulated-mint/" + owner.String() + "/" + metadataURI))
	return hex.EncodeToString(sum[:]), nil
}
