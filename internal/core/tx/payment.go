package tx

import (
	"fmt"
	"strconv"
)

// Payment moves quote units between two accounts. The destination is
// created when it does not exist yet.
type Payment struct {
	BaseTx
	Destination string `json:"Destination"`
	Amount      string `json:"Amount"`
}

func init() {
	Register(TypePayment, func() Transaction {
		return &Payment{BaseTx: BaseTx{TransactionType: TypePayment.String()}}
	})
}

func (p *Payment) TxType() Type { return TypePayment }

func (p *Payment) Validate() error {
	if err := p.ValidateCommon(); err != nil {
		return err
	}
	destination, err := DecodeAccountID(p.Destination)
	if err != nil {
		return fmt.Errorf("temINVALID_INPUT: invalid Destination: %w", err)
	}
	if account, err := DecodeAccountID(p.Account); err == nil && destination == account {
		return fmt.Errorf("temINVALID_INPUT: Destination equals Account")
	}
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil || amount == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: Amount must be a positive integer")
	}
	return nil
}

func (p *Payment) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.FlattenInto(flat)
	flat["Destination"] = p.Destination
	flat["Amount"] = p.Amount
	return flat
}

func (p *Payment) Apply(ctx *ApplyContext) Result {
	destination, _ := DecodeAccountID(p.Destination)
	amount, _ := strconv.ParseUint(p.Amount, 10, 64)
	return Credit(ctx.View, ctx.AccountID, destination, amount)
}
