//go:build integration

package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"carbon-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestKafkaLedger_PublishesKeyedCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	const topic = "programme-ledger"
	admin, err := kgo.NewClient(kgo.SeedBrokers(broker))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopics(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	l, err := NewKafkaLedger([]string{broker}, topic)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Ping(ctx))
	require.NoError(t, l.FreezeCompany(ctx, 42, "suspended", "user-9"))
	require.NoError(t, l.RevokeCompanyCertifications(ctx, 43, "suspended", "user-9"))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var got []Message
	for len(got) < 2 {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, fetches.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			var msg Message
			require.NoError(t, json.Unmarshal(r.Value, &msg))
			assert.Equal(t, string(msg.Type), string(r.Headers[0].Value))
			got = append(got, msg)
		})
	}

	assert.Equal(t, domain.LedgerEventFreezeCompany, got[0].Type)
	assert.Equal(t, int64(42), got[0].CompanyID)
	assert.Equal(t, "user-9", got[0].UserID)
	assert.Equal(t, domain.LedgerEventRevokeCertifications, got[1].Type)
	assert.Equal(t, int64(43), got[1].CompanyID)
}
