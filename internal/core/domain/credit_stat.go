package domain

import "fmt"

// CreditStatType labels a credit statistics category
type CreditStatType string

const (
	CreditStatsBalance     CreditStatType = "creditBalance"
	CreditStatsTransferred CreditStatType = "creditTransferred"
	CreditStatsRetired     CreditStatType = "creditRetired"
	CreditStatsIssued      CreditStatType = "creditIssued"
)

// The certified names share their labels with the plain statistics.
// TODO: give certified statistics their own labels once the registry tracks certified balances separately.
const (
	CreditCertifiedBalance     = CreditStatsBalance
	CreditCertifiedTransferred = CreditStatsTransferred
	CreditCertifiedRetired     = CreditStatsRetired
	CreditCertifiedIssued      = CreditStatsIssued
)

// CreditStatTypes lists the distinct labels in display order
var CreditStatTypes = []CreditStatType{
	CreditStatsBalance,
	CreditStatsTransferred,
	CreditStatsRetired,
	CreditStatsIssued,
}

// IsValid reports whether t is a known label
func (t CreditStatType) IsValid() bool {
	for _, known := range CreditStatTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseCreditStatType parses a label such as "creditIssued"
func ParseCreditStatType(label string) (CreditStatType, error) {
	t := CreditStatType(label)
	if !t.IsValid() {
		return "", fmt.Errorf("credit stat type %q: %w", label, ErrInvalidInput)
	}
	return t, nil
}

// CreditStatTypeName pairs an enum name with its label
type CreditStatTypeName struct {
	Name  string         `json:"name"`
	Label CreditStatType `json:"label"`
}

// CreditStatTypeNames lists every enum name, aliases included
var CreditStatTypeNames = []CreditStatTypeName{
	{"CREDIT_STATS_BALANCE", CreditStatsBalance},
	{"CREDIT_STATS_TRANSFERRED", CreditStatsTransferred},
	{"CREDIT_STATS_RETIRED", CreditStatsRetired},
	{"CREDIT_STATS_ISSUED", CreditStatsIssued},
	{"CREDIT_CERTIFIED_BALANCE", CreditCertifiedBalance},
	{"CREDIT_CERTIFIED_TRANSFERRED", CreditCertifiedTransferred},
	{"CREDIT_CERTIFIED_RETIRED", CreditCertifiedRetired},
	{"CREDIT_CERTIFIED_ISSUED", CreditCertifiedIssued},
}
