package bankdata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DemoToken is the sentinel credential that forces a fresh login.
const DemoToken = "demo-token"

// maxTransactions caps how much history feeds the analytics.
const maxTransactions = 20

// Config configures the bank microservice client.
type Config struct {
	UserServiceURL        string
	BalanceReaderURL      string
	TransactionHistoryURL string
	ContactsURL           string
	Password              string
	HTTPClient            *http.Client
}

func (cfg *Config) applyDefaults() {
	if cfg.UserServiceURL == "" {
		cfg.UserServiceURL = "http://userservice:8080"
	}
	if cfg.BalanceReaderURL == "" {
		cfg.BalanceReaderURL = "http://balancereader:8080"
	}
	if cfg.TransactionHistoryURL == "" {
		cfg.TransactionHistoryURL = "http://transactionhistory:8080"
	}
	if cfg.ContactsURL == "" {
		cfg.ContactsURL = "http://contacts:8080"
	}
	if cfg.Password == "" {
		cfg.Password = "bankofanthos"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
}

// Client fetches account data from the bank's microservices. Upstream
// failures degrade to demo data rather than erroring, so the advisor always
// has something to analyze.
type Client struct {
	cfg Config
}

// NewClient builds a client from the config, filling in cluster-local
// defaults for unset service URLs.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{cfg: cfg}
}

// FetchProfile aggregates balance, transactions, and contacts for a user.
// An empty or demo auth token triggers a fresh login. Contacts are fetched
// before transactions so transfer descriptions can carry contact labels.
func (c *Client) FetchProfile(ctx context.Context, username, authToken string) Profile {
	profile := Profile{Username: username}

	if authToken == "" || authToken == DemoToken {
		token, err := c.login(ctx, username)
		if err != nil {
			return DemoProfile(username)
		}
		authToken = token
	}

	accountID := accountFromToken(authToken, username)
	profile.AccountNum = accountID

	contacts, err := c.fetchContacts(ctx, username, authToken)
	if err != nil {
		contacts = demoContacts()
	}
	profile.Contacts = contacts

	balance, err := c.fetchBalance(ctx, accountID, authToken)
	if err != nil {
		balance = demoBalance()
	}
	profile.Balance = balance

	transactions, err := c.fetchTransactions(ctx, accountID, authToken, contacts)
	if err != nil {
		transactions = demoTransactions()
	}
	profile.Transactions = transactions

	return profile
}

func (c *Client) login(ctx context.Context, username string) (string, error) {
	loginURL := fmt.Sprintf("%s/login?username=%s&password=%s",
		c.cfg.UserServiceURL,
		url.QueryEscape(username),
		url.QueryEscape(c.cfg.Password),
	)
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.get(ctx, loginURL, "", &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("bankdata: login returned empty token")
	}
	return resp.Token, nil
}

func (c *Client) fetchBalance(ctx context.Context, accountID, token string) (Balance, error) {
	var cents int64
	path := fmt.Sprintf("%s/balances/%s", c.cfg.BalanceReaderURL, url.PathEscape(accountID))
	if err := c.get(ctx, path, token, &cents); err != nil {
		return Balance{}, err
	}
	return Balance{Amount: float64(cents) / 100.0, Currency: "USD"}, nil
}

type rawTransaction struct {
	TransactionID  json.Number `json:"transactionId"`
	FromAccountNum string      `json:"fromAccountNum"`
	ToAccountNum   string      `json:"toAccountNum"`
	Amount         int64       `json:"amount"`
	Timestamp      string      `json:"timestamp"`
}

func (c *Client) fetchTransactions(ctx context.Context, accountID, token string, contacts []Contact) ([]Transaction, error) {
	var raw []rawTransaction
	path := fmt.Sprintf("%s/transactions/%s", c.cfg.TransactionHistoryURL, url.PathEscape(accountID))
	if err := c.get(ctx, path, token, &raw); err != nil {
		return nil, err
	}
	if len(raw) > maxTransactions {
		raw = raw[:maxTransactions]
	}

	labels := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		labels[contact.AccountNum] = contact.Label
	}

	formatted := make([]Transaction, 0, len(raw))
	for _, tx := range raw {
		incoming := tx.ToAccountNum == accountID
		other := tx.ToAccountNum
		if incoming {
			other = tx.FromAccountNum
		}

		var description string
		if label, ok := labels[other]; ok {
			if incoming {
				description = "Payment from " + label
			} else {
				description = "Payment to " + label
			}
		} else {
			if incoming {
				description = "Transfer from account " + other
			} else {
				description = "Transfer to account " + other
			}
		}

		dollars := float64(tx.Amount) / 100.0
		sign := "-"
		if incoming {
			sign = "+"
		}
		formatted = append(formatted, Transaction{
			Amount:        fmt.Sprintf("%s%.2f", sign, dollars),
			Description:   description,
			Timestamp:     tx.Timestamp,
			RawAmount:     tx.Amount,
			IsIncoming:    incoming,
			FromAccount:   tx.FromAccountNum,
			ToAccount:     tx.ToAccountNum,
			TransactionID: tx.TransactionID.String(),
		})
	}
	return formatted, nil
}

func (c *Client) fetchContacts(ctx context.Context, username, token string) ([]Contact, error) {
	var contacts []Contact
	path := fmt.Sprintf("%s/contacts/%s", c.cfg.ContactsURL, url.PathEscape(username))
	if err := c.get(ctx, path, token, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) get(ctx context.Context, rawURL, token string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("bankdata: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("bankdata: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bankdata: remote error %d from %s", resp.StatusCode, rawURL)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("bankdata: decode response: %w", err)
	}
	return nil
}

// accountFromToken pulls the acct claim out of a JWT without verifying the
// signature. The token was already accepted upstream; we only need the
// account number. Falls back to the username when the claim is absent.
func accountFromToken(token, fallback string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fallback
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return fallback
	}
	var claims struct {
		Acct string `json:"acct"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Acct == "" {
		return fallback
	}
	return claims.Acct
}

// DemoProfile returns deterministic fixture data used when upstream services
// are unreachable or authentication fails.
func DemoProfile(username string) Profile {
	return Profile{
		Username:     username,
		Balance:      demoBalance(),
		Transactions: demoTransactions(),
		Contacts:     demoContacts(),
		Demo:         true,
	}
}

func demoBalance() Balance {
	return Balance{Amount: 1250.75, Currency: "USD"}
}

func demoTransactions() []Transaction {
	return []Transaction{
		{Amount: "-45.30", Description: "Coffee Shop", Timestamp: "2024-01-15T10:30:00Z"},
		{Amount: "-120.00", Description: "Grocery Store", Timestamp: "2024-01-14T16:45:00Z"},
		{Amount: "2500.00", Description: "Salary Deposit", Timestamp: "2024-01-13T09:00:00Z"},
		{Amount: "-85.50", Description: "Gas Station", Timestamp: "2024-01-12T18:20:00Z"},
	}
}

func demoContacts() []Contact {
	return []Contact{
		{Label: "Alice Johnson", AccountNum: "1234567890"},
		{Label: "Bob Smith", AccountNum: "0987654321"},
	}
}
