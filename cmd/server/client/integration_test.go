//go:build integration

package client

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/handlers/features/v1alpha1"
)

// Runs against a server started over the shipped catalogs:
//
//	rpg-features server --catalog-dir ./catalogs
func newIntegrationClient(t *testing.T) *v1alpha1.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	grpcServerAddress := os.Getenv("GRPC_SERVER_ADDRESS")
	if grpcServerAddress == "" {
		grpcServerAddress = "localhost:50051"
	}
	conn, err := grpc.NewClient(grpcServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("Failed to close connection: %v", err)
		}
	})

	return v1alpha1.NewClient(conn)
}

func TestDescribeIntegration(t *testing.T) {
	client := newIntegrationClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	character := features.NewCharacterContext(features.CharacterInput{
		Scores: features.AbilityScores{features.AbilityCharisma: 16},
	})

	out, err := client.GetFeatureDescription(ctx, "Bardic Inspiration", character, locator.Hints{Class: "Bard"})
	require.NoError(t, err)
	assert.Equal(t, "Bardic Inspiration", out.Name)
	assert.Contains(t, out.Description, "You can use this feature 3 times per long rest.")

	_, err = client.GetFeatureDescription(ctx, "Not A Feature", character, locator.Hints{})
	assert.True(t, errors.IsNotFound(err))
}

func TestExportIntegration(t *testing.T) {
	client := newIntegrationClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := client.FormatFeaturesForPDF(ctx, []string{"Darkvision", "Not A Feature"}, nil, locator.Hints{Species: "Dwarf"})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "[[BOLD:Darkvision]]")
	assert.Contains(t, out.Text, "• Not A Feature")
	assert.Equal(t, []string{"Not A Feature"}, out.Missing)
}

func TestRollIntegration(t *testing.T) {
	client := newIntegrationClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := client.RollAbilityScores(ctx, "")
	require.NoError(t, err)
	require.Len(t, out.Scores, len(features.Abilities))
	for _, ability := range features.Abilities {
		assert.GreaterOrEqual(t, out.Scores[ability], 3)
		assert.LessOrEqual(t, out.Scores[ability], 18)
	}
}
