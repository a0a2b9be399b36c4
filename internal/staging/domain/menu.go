package domain

// Menu items understood by the downstream consumer.
const (
	MenuItemPurchase = "dscr_purchase"
	MenuItemCashout  = "dscr_cashout"
	MenuItemRefi     = "dscr_refi"
)

// Loan types the extraction tool is allowed to produce. The pre-chat buttons
// additionally send "refi", which is not in this set.
const (
	LoanTypePurchase  = "purchase"
	LoanTypeCashout   = "cashout"
	LoanTypeRefinance = "refinance"
)

// MenuItemForLoanType classifies a loan type into a consumer menu item.
// Anything unrecognized, including the pre-chat "refi" button value and a
// missing loan type, lands in the refinance bucket. The consumer's routing
// distribution depends on this exact fallback.
func MenuItemForLoanType(loanType string) string {
	switch loanType {
	case LoanTypePurchase:
		return MenuItemPurchase
	case LoanTypeCashout:
		return MenuItemCashout
	case LoanTypeRefinance:
		return MenuItemRefi
	default:
		return MenuItemRefi
	}
}
