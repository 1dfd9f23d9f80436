package market

import "fmt"

// Converter translates between the account currency (e.g. EUR) and the
// quote currency the instruments are denominated in (USD for the default
// universe). The rate is fixed at construction; it exists for display
// and journaling only. Sizing always works from the authoritative
// account balance, never from a converted figure.
type Converter struct {
	AccountCurrency string
	QuoteCurrency   string
	rate            float64 // quote units per one account unit
}

func NewConverter(accountCurrency, quoteCurrency string, rate float64) (*Converter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("conversion rate must be positive, got %v", rate)
	}
	return &Converter{
		AccountCurrency: accountCurrency,
		QuoteCurrency:   quoteCurrency,
		rate:            rate,
	}, nil
}

// ToQuote converts an amount in the account currency to the quote
// currency (EUR -> USD in the default setup).
func (c *Converter) ToQuote(amount float64) float64 {
	return amount * c.rate
}

// ToAccount converts an amount in the quote currency back to the account
// currency.
func (c *Converter) ToAccount(amount float64) float64 {
	return amount / c.rate
}

func (c *Converter) Rate() float64 { return c.rate }
