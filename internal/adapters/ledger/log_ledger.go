package ledger

import (
	"context"
	"log"
)

// LogLedger only logs ledger calls. It is used in dev mode when no
// brokers are configured.
type LogLedger struct {
	logger *log.Logger
}

// NewLogLedger creates a ledger that writes calls to logger
func NewLogLedger(logger *log.Logger) *LogLedger {
	if logger == nil {
		logger = log.Default()
	}
	return &LogLedger{logger: logger}
}

// FreezeCompany logs the freeze call
func (l *LogLedger) FreezeCompany(_ context.Context, companyID int64, remarks, userID string) error {
	l.logger.Printf("📒 [ledger] freeze company %d by %s: %s", companyID, userID, remarks)
	return nil
}

// RevokeCompanyCertifications logs the revocation call
func (l *LogLedger) RevokeCompanyCertifications(_ context.Context, companyID int64, remarks, userID string) error {
	l.logger.Printf("📒 [ledger] revoke certifications of company %d by %s: %s", companyID, userID, remarks)
	return nil
}
