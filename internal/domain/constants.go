package domain

// Wallet kinds. Every user owns exactly one wallet of each kind.
const (
	WalletCommissions = "COMMISSIONS"
	WalletDividends   = "DIVIDENDS"
)

// Transaction concepts.
const (
	ConceptDirectRegistrationBonus   = "DIRECT_REGISTRATION_BONUS"
	ConceptIndirectRegistrationBonus = "INDIRECT_REGISTRATION_BONUS"
	ConceptRenewalBonus              = "RENEWAL_BONUS"
	ConceptUninivelBonus             = "UNINIVEL_BONUS"
	ConceptPassiveIncome             = "PASSIVE_INCOME"
	ConceptLicensePurchase           = "LICENSE_PURCHASE"
	ConceptDelegatedLicensePurchase  = "DELEGATED_LICENSE_PURCHASE"
	ConceptUserTransfer              = "USER_TRANSFER"
	ConceptWithdrawal                = "WITHDRAWAL"
)

// EarningConcepts are the concepts counted as income in earnings reports.
var EarningConcepts = []string{
	ConceptDirectRegistrationBonus,
	ConceptIndirectRegistrationBonus,
	ConceptRenewalBonus,
	ConceptUninivelBonus,
	ConceptPassiveIncome,
}

// Payment methods. An empty method means none.
const (
	PaymentCommissionsWallet = "COMMISSIONS_WALLET"
	PaymentDividendsWallet   = "DIVIDENDS_WALLET"
	PaymentCryptoTransfer    = "CRYPTO_TRANSFER"
)

const (
	TxStatusPending   = "PENDING"
	TxStatusApproved  = "APPROVED"
	TxStatusRejected  = "REJECTED"
	TxStatusCompleted = "COMPLETED"
)

// Bonus accumulator kinds.
const (
	BonusInscription = "INSCRIPTION"
	BonusRenewal     = "RENEWAL"
	BonusUninivel    = "UNINIVEL"
)

const (
	BatchPassiveIncome  = "passive_income"
	BatchRankAssignment = "rank_assignment"
)

// PaymentMethodFor returns the payment method that debits or credits the given wallet kind.
func PaymentMethodFor(walletKind string) string {
	switch walletKind {
	case WalletCommissions:
		return PaymentCommissionsWallet
	case WalletDividends:
		return PaymentDividendsWallet
	}
	return ""
}

// IsWalletKind reports whether kind names a wallet kind.
func IsWalletKind(kind string) bool {
	return kind == WalletCommissions || kind == WalletDividends
}

// WalletKindFor is the inverse of PaymentMethodFor.
func WalletKindFor(paymentMethod string) string {
	switch paymentMethod {
	case PaymentCommissionsWallet:
		return WalletCommissions
	case PaymentDividendsWallet:
		return WalletDividends
	}
	return ""
}
