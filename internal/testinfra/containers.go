//go:build integration

// Package testinfra starts throwaway database containers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("skipping: docker not available")
	}
}

// StartPostgres runs a PostgreSQL container and returns its DSN. The
// container is terminated on test cleanup.
func StartPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "journal",
				"POSTGRES_PASSWORD": "journal",
				"POSTGRES_DB":       "journal",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	terminateOnCleanup(t, c)

	host, port := endpoint(t, ctx, c, "5432/tcp")
	return fmt.Sprintf("postgres://journal:journal@%s:%s/journal?sslmode=disable", host, port)
}

// StartMongo runs a MongoDB container and returns its connection URI.
func StartMongo(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	terminateOnCleanup(t, c)

	host, port := endpoint(t, ctx, c, "27017/tcp")
	return fmt.Sprintf("mongodb://%s:%s", host, port)
}

func endpoint(t *testing.T, ctx context.Context, c testcontainers.Container, port nat.Port) (string, string) {
	t.Helper()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, mapped.Port()
}

func terminateOnCleanup(t *testing.T, c testcontainers.Container) {
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
}
