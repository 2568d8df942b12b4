package tx

// Type identifies a transaction kind on the wire and in the registry.
type Type uint16

const (
	TypePayment      Type = 0
	TypePoolCreate   Type = 40
	TypePoolBuy      Type = 41
	TypePoolSell     Type = 42
	TypePoolDeposit  Type = 43
	TypePoolWithdraw Type = 44
)

var typeNames = map[Type]string{
	TypePayment:      "Payment",
	TypePoolCreate:   "PoolCreate",
	TypePoolBuy:      "PoolBuy",
	TypePoolSell:     "PoolSell",
	TypePoolDeposit:  "PoolDeposit",
	TypePoolWithdraw: "PoolWithdraw",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// TypeFromName resolves a transaction type from its JSON name.
func TypeFromName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
