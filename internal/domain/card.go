package domain

import "strings"

// State is the billing state of the card holder
type State struct {
	Code string `json:"code"` // 2 or 3 character state code
	Name string `json:"name"`
}

// Country is the billing country of the card holder
type Country struct {
	Alpha2  string `json:"alpha2"`
	Alpha3  string `json:"alpha3"`
	Name    string `json:"name"`
	AltName string `json:"alt_name"`
}

// CardInfo carries the card and billing details of a single charge.
// It is used once to obtain a card identifier and is never persisted.
type CardInfo struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	CardNumber   string  `json:"card_number"`
	CardExp      string  `json:"card_exp"` // yyyymm
	SecurityCode string  `json:"card_security_code"`
	Type         string  `json:"type"`
	Address1     string  `json:"address1"`
	Address2     string  `json:"address2"`
	City         string  `json:"city"`
	State        State   `json:"state"`
	Country      Country `json:"country"`
	Zip          string  `json:"zip"`
}

// CardholderName joins the first and last name the way it is printed on the card
func (c CardInfo) CardholderName() string {
	return c.FirstName + " " + c.LastName
}

// LastFour returns the last four digits of the card number for logging
func (c CardInfo) LastFour() string {
	digits := strings.ReplaceAll(c.CardNumber, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
