package testutil

import (
	"errors"
	"net"
	"os/exec"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/nkiryanov/clubhouse/internal/repository"
)

// Return random free port on 127.0.0.1 address
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	addr := ln.Addr().(*net.TCPAddr)
	return addr.Port, nil
}

type RabbitMQContainer struct {
	URL       string
	Terminate func()
}

// Start container with rabbitmq
// Stop if error happened, so you may be sure container started ok
// Should be stopped when tests stopped
func StartRabbitMQContainer(t *testing.T) RabbitMQContainer {
	t.Helper()

	// Fail if docker rootless not found
	cmd := exec.Command("docker", "info", "--format", "{{.ServerVersion}}")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("test failed: docker rootless not available or not running. Err:%s", out)
	}

	container, err := rabbitmq.Run(t.Context(),
		"rabbitmq:3.13-management-alpine",
		rabbitmq.WithAdminUsername("clubhouse"),
		rabbitmq.WithAdminPassword("pwd"),
	)
	require.NoError(t, err, "Error happened when starting container with rabbitmq, deal with it please")

	url, err := container.AmqpURL(t.Context())
	require.NoError(t, err, "Error happened when getting amqp url from container with rabbitmq")
	t.Logf("Container with rabbitmq started, URL=%v", url)

	return RabbitMQContainer{
		URL: url,
		Terminate: func() {
			testcontainers.CleanupContainer(t, container)
		},
	}
}

var errRollback = errors.New("test transaction rollback")

// Run testFunc in storage transaction and rollback at test end
// So you may be sure storage remains unchanged when test stops
func WithTx(storage repository.Storage, t *testing.T, testFunc func(tx repository.Storage)) {
	err := storage.InTx(t.Context(), func(tx repository.Storage) error {
		testFunc(tx)
		return errRollback
	})

	require.ErrorIs(t, err, errRollback)
}

// Parse decimal or fail test
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// Compare decimals by value, so 1.5 equals 1.50
func RequireDecEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()

	require.Truef(t, Dec(t, expected).Equal(actual), "expected %s, got %s. %v", expected, actual, msgAndArgs)
}
