package testtool

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupContainer 通用函式來啟動測試容器
func SetupContainer(ctx context.Context, req testcontainers.ContainerRequest) (testcontainers.Container, string, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", "", err
	}

	// 轉換 ExposedPorts[0] 為 nat.Port
	natPort, err := nat.NewPort("tcp", strings.TrimSuffix(req.ExposedPorts[0], "/tcp"))
	if err != nil {
		return nil, "", "", err
	}

	port, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return nil, "", "", err
	}

	return container, host, port.Port(), nil
}

// PostgresContainer running postgres for repository tests
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
}

// providerCheck 沒有 docker 時可能直接 panic (rootless Docker not found)
var providerCheck = testcontainers.SkipIfProviderIsNotHealthy

// SkipWithoutDocker skip t when no container provider is reachable
func SkipWithoutDocker(t *testing.T) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("docker unavailable: %v", r)
		}
	}()
	providerCheck(t)
}

// SetupPostgres start postgres:15-alpine, docker 不可用時 skip
func SetupPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	SkipWithoutDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "chat",
			"POSTGRES_PASSWORD": "chat",
			"POSTGRES_DB":       "chat_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, host, port, err := SetupContainer(ctx, req)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{
		Container: container,
		DSN:       fmt.Sprintf("postgres://chat:chat@%s:%s/chat_test?sslmode=disable", host, port),
	}
}
