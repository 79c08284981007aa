package payload

// AuthStatus is the single trust verdict for a scan.
type AuthStatus string

const (
	StatusVerified   AuthStatus = "Verified"
	StatusSuspicious AuthStatus = "Suspicious"
	StatusInvalid    AuthStatus = "Invalid"
)

// VerificationResult holds the independent check outcomes. Every field
// defaults to false on any internal failure; none is ever null.
type VerificationResult struct {
	FormatValid   bool `json:"format_valid"`
	CryptoValid   bool `json:"crypto_valid"`
	DomainValid   bool `json:"domain_valid"`
	ProviderKnown bool `json:"provider_known"`
}

// HighFrequencyThreshold is the usage count at which repeated presentation of
// one identifier is itself treated as a suspicion signal.
const HighFrequencyThreshold = 3

// Aggregate combines the check booleans and the ledger count into the final
// verdict. An unparseable input is terminal; past that, any failed or unknown
// signal downgrades to Suspicious rather than Verified.
func Aggregate(vr VerificationResult, usageCount int64) AuthStatus {
	if !vr.FormatValid {
		return StatusInvalid
	}
	if !vr.CryptoValid || !vr.DomainValid || !vr.ProviderKnown || usageCount >= HighFrequencyThreshold {
		return StatusSuspicious
	}
	return StatusVerified
}
