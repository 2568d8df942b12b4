package protocol

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// Hash prefixes keep the ledger's derived identifiers in disjoint domains:
// two inputs can never collide across prefixes.
var (
	HashPrefixTransactionID = makeHashPrefix('T', 'X', 'N') // transaction hash
	HashPrefixAssetID       = makeHashPrefix('A', 'S', 'T') // asset identity
	HashPrefixAccountID     = makeHashPrefix('A', 'C', 'C') // name-derived account (faucet, tests)
)
