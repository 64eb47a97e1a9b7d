//go:build integration

// Package testinfra поднимает PostgreSQL и Redis в контейнерах для интеграционных тестов.
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

const (
	PostgresImage = "postgres:16-alpine"
	RedisImage    = "redis:7-alpine"
)

// SkipIfNoDocker пропускает тест, если Docker недоступен.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func start(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	return container
}

func endpoint(t *testing.T, c testcontainers.Container, port string) (string, string) {
	t.Helper()
	ctx := context.Background()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("failed to get mapped port %s: %v", port, err)
	}
	return host, mapped.Port()
}

// StartPostgres запускает пустую базу filmorate и возвращает строку подключения.
func StartPostgres(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)
	c := start(t, testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "filmorate",
			"POSTGRES_PASSWORD": "filmorate",
			"POSTGRES_DB":       "filmorate",
		},
		// Сообщение печатается дважды: после initdb и после настоящего старта.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	host, port := endpoint(t, c, "5432/tcp")
	return fmt.Sprintf("postgres://filmorate:filmorate@%s:%s/filmorate?sslmode=disable", host, port)
}

// StartRedis запускает Redis и возвращает адрес host:port.
func StartRedis(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)
	c := start(t, testcontainers.ContainerRequest{
		Image:        RedisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})
	host, port := endpoint(t, c, "6379/tcp")
	return host + ":" + port
}
