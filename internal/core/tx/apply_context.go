package tx

// Metadata records the ledger entries a transaction touched.
type Metadata struct {
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
	TransactionResult string         `json:"TransactionResult"`
}

// AffectedNode describes one touched entry.
type AffectedNode struct {
	NodeType        string `json:"NodeType"`
	LedgerEntryType string `json:"LedgerEntryType"`
	LedgerIndex     string `json:"LedgerIndex"`
}

// ApplyContext is handed to a transaction's Apply. View is the buffered
// state table; writes through it are discarded unless the transaction
// succeeds or fails with a tec code.
type ApplyContext struct {
	View      LedgerView
	Tx        Transaction
	Account   *AccountRoot
	AccountID AccountID
	TxHash    [32]byte
	Config    EngineConfig
}

// CloseTime is the close time of the ledger being built, unix seconds.
func (c *ApplyContext) CloseTime() int64 { return c.Config.CloseTime }
