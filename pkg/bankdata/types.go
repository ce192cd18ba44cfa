// Package bankdata fetches account data from the bank's microservices
// (userservice, balancereader, transactionhistory, contacts) and shapes it
// for the advisor's analytics.
package bankdata

// Balance is an account balance in dollars.
type Balance struct {
	Amount   float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// Contact is a saved payee or payer for an account.
type Contact struct {
	Label      string `json:"label"`
	AccountNum string `json:"account_num"`
}

// Transaction is one ledger entry formatted for analysis. Amount carries a
// sign prefix ("+" incoming, "-" outgoing); RawAmount is the original value
// in cents.
type Transaction struct {
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Timestamp     string `json:"timestamp"`
	RawAmount     int64  `json:"raw_amount,omitempty"`
	IsIncoming    bool   `json:"is_incoming,omitempty"`
	FromAccount   string `json:"from_account,omitempty"`
	ToAccount     string `json:"to_account,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// Profile aggregates everything the advisor knows about one account holder.
type Profile struct {
	Username     string        `json:"username"`
	AccountNum   string        `json:"account_num,omitempty"`
	Balance      Balance       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
	Contacts     []Contact     `json:"contacts"`
	Demo         bool          `json:"demo,omitempty"`
}
