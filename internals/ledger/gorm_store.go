// internals/ledger/gorm_store.go
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

/* =========================================================
   GormStore: AccountStore di atas PostgreSQL
   =========================================================
   Primary key account_address memberi semantik "initialize once":
   dua Create serentak ke alamat sama → satu menang, satunya kena
   unique violation (23505) yang diterjemahkan ke ErrDuplicateAccount.
*/

type LedgerAccountModel struct {
	AccountAddress       []byte    `gorm:"type:bytea;primaryKey;column:account_address"`
	AccountDiscriminator []byte    `gorm:"type:bytea;not null;column:account_discriminator;index:idx_ledger_accounts_disc"`
	AccountData          []byte    `gorm:"type:bytea;not null;column:account_data"`
	AccountCreatedAt     time.Time `gorm:"column:account_created_at;autoCreateTime"`
}

func (LedgerAccountModel) TableName() string { return "ledger_accounts" }

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(ctx context.Context, addr Address, disc Discriminator, data []byte) error {
	m := LedgerAccountModel{
		AccountAddress:       addr[:],
		AccountDiscriminator: disc[:],
		AccountData:          data,
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, addr Address) ([]byte, error) {
	var m LedgerAccountModel
	err := s.DB.WithContext(ctx).
		First(&m, "account_address = ?", addr[:]).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return m.AccountData, nil
}

func (s *GormStore) Update(ctx context.Context, addr Address, data []byte) error {
	res := s.DB.WithContext(ctx).
		Model(&LedgerAccountModel{}).
		Where("account_address = ?", addr[:]).
		Update("account_data", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Scan memfilter pemilik langsung di server: 32 byte setelah
// discriminator (offset 9 versi substring 1-based Postgres).
func (s *GormStore) Scan(ctx context.Context, filter ScopeFilter) ([]RawAccount, error) {
	var rows []LedgerAccountModel
	err := s.DB.WithContext(ctx).
		Where("account_discriminator = ? AND substring(account_data FROM 9 FOR 32) = ?",
			filter.Discriminator[:], filter.Owner[:]).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]RawAccount, 0, len(rows))
	for _, r := range rows {
		var addr Address
		copy(addr[:], r.AccountAddress)
		out = append(out, RawAccount{Address: addr, Data: r.AccountData})
	}
	return out, nil
}

// isDuplicateKey: gorm.ErrDuplicatedKey kalau TranslateError aktif,
// fallback ke SQLSTATE 23505 di pesan driver.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
