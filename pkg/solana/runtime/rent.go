package runtime

// AccountStorageOverhead is the per-account metadata size charged on top of
// its data.
const AccountStorageOverhead = 128

// Rent holds the parameters for computing rent-exempt balances.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

// MinimumBalance returns the lamports an account holding dataLen bytes needs to
// be exempt from rent.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether lamports covers the rent-exempt minimum for dataLen.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}
