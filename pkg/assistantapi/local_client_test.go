package assistantapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	advisor "github.com/balajinrrbgm/go-assistant-widget/components/advisor"
	assistant "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
	"github.com/balajinrrbgm/go-assistant-widget/pkg/bankdata"
)

type localBank struct{}

func (localBank) FetchProfile(_ context.Context, username, _ string) bankdata.Profile {
	return bankdata.Profile{
		Username: username,
		Balance:  bankdata.Balance{Amount: 1250.75, Currency: "USD"},
		Transactions: []bankdata.Transaction{
			{Amount: "+2500.00", RawAmount: 250000, Description: "Salary Deposit", Timestamp: "2026-08-01T09:00:00Z"},
			{Amount: "-45.30", RawAmount: 4530, Description: "Coffee Shop", Timestamp: "2026-08-02T10:30:00Z"},
		},
	}
}

type localGenerator struct{}

func (localGenerator) GenerateText(context.Context, string) (string, error) {
	return "**Solid month** overall.", nil
}

func TestLocalClientBridgesAdvisorService(t *testing.T) {
	t.Parallel()

	service, err := advisor.NewService(advisor.Options{
		Bank:      localBank{},
		Generator: localGenerator{},
	})
	require.NoError(t, err)
	client := NewLocalClient(service)

	reply, err := client.Chat(context.Background(), assistant.ChatRequest{
		Message:  "how am I doing?",
		Username: "testuser",
	})
	require.NoError(t, err)
	assert.Equal(t, "**Solid month** overall.", reply.AIResponse)

	payload, err := client.Insights(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, "**Solid month** overall.", payload.Insights)
	require.NotNil(t, payload.Summary)
	assert.Equal(t, 1250.75, payload.Summary.Balance)
	require.Len(t, payload.Visualizations, 5)

	gauge := payload.Visualizations[advisor.DatasetHealthGauge]
	assert.Equal(t, "gauge", gauge.Type)
	assert.Equal(t, float64(payload.Summary.HealthScore), gauge.Value)
}
