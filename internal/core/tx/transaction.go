package tx

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// AccountID is the 20-byte identifier of a ledger account.
type AccountID = [20]byte

// Transaction is implemented by every submittable transaction.
type Transaction interface {
	TxType() Type
	GetCommon() *BaseTx
	// Validate performs stateless checks. Errors are prefixed with the
	// tem result name they should map to, e.g. "temINVALID_AMOUNT: ...".
	Validate() error
	Flatten() map[string]interface{}
}

// Appliable is implemented by transactions the engine can execute.
type Appliable interface {
	Transaction
	Apply(ctx *ApplyContext) Result
}

// BaseTx carries the fields common to all transactions.
type BaseTx struct {
	Account         string  `json:"Account"`
	TransactionType string  `json:"TransactionType"`
	Fee             string  `json:"Fee,omitempty"`
	Sequence        *uint32 `json:"Sequence,omitempty"`
	Flags           *uint32 `json:"Flags,omitempty"`
}

func (b *BaseTx) GetCommon() *BaseTx { return b }

// ValidateCommon checks the shared fields. Transaction validators call it
// before their own checks.
func (b *BaseTx) ValidateCommon() error {
	if _, err := DecodeAccountID(b.Account); err != nil {
		return fmt.Errorf("temBAD_SRC_ACCOUNT: invalid Account: %w", err)
	}
	if b.Fee != "" {
		if _, err := strconv.ParseUint(b.Fee, 10, 64); err != nil {
			return fmt.Errorf("temBAD_FEE: invalid Fee %q", b.Fee)
		}
	}
	return nil
}

// FlattenInto writes the shared fields into a flattened map.
func (b *BaseTx) FlattenInto(flat map[string]interface{}) {
	flat["Account"] = b.Account
	flat["TransactionType"] = b.TransactionType
	if b.Fee != "" {
		flat["Fee"] = b.Fee
	}
	if b.Sequence != nil {
		flat["Sequence"] = *b.Sequence
	}
	if b.Flags != nil {
		flat["Flags"] = *b.Flags
	}
}

// FeeAmount returns the declared fee, zero when absent.
func (b *BaseTx) FeeAmount() uint64 {
	if b.Fee == "" {
		return 0
	}
	fee, err := strconv.ParseUint(b.Fee, 10, 64)
	if err != nil {
		return 0
	}
	return fee
}

// DecodeAccountID parses the hex form of an account identifier.
func DecodeAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("account id must be %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// EncodeAccountID renders an account identifier in its hex form.
func EncodeAccountID(id AccountID) string {
	return hex.EncodeToString(id[:])
}
