package ledger

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLedger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogLedger(log.New(&buf, "", 0))

	require.NoError(t, l.FreezeCompany(context.Background(), 5, "fraud", "user-1"))
	require.NoError(t, l.RevokeCompanyCertifications(context.Background(), 6, "expired", "user-2"))

	assert.Contains(t, buf.String(), "freeze company 5 by user-1: fraud")
	assert.Contains(t, buf.String(), "revoke certifications of company 6 by user-2: expired")
}

func TestNewKafkaLedger_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaLedger(nil, "ledger")
	assert.Error(t, err)

	_, err = NewKafkaLedger([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
