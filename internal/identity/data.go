package identity

// registration defaults for probe accounts
const (
	defaultEmailPrefix = "bestbuy-test"
	defaultDomain      = "example.com"
	defaultPassword    = "testpass123"
	defaultFirstName   = "BestBuy"
	defaultLastName    = "Tester"
)
